package preprocessing

import "testing"

func TestObjectHistory(t *testing.T) {
	h := NewObjectHistory(3)

	if h.Len() != 0 || h.Get(0) != nil {
		t.Fatalf("expected empty history")
	}

	objs := make([]*DifficultyObject, 5)
	for i := range objs {
		objs[i] = &DifficultyObject{Index: i}
		h.Push(objs[i])
	}

	if h.Len() != 3 {
		t.Fatalf("expected history capped at 3, got %d", h.Len())
	}

	for i := 0; i < 3; i++ {
		if got := h.Get(i); got != objs[4-i] {
			t.Fatalf("Get(%d) returned index %d, want %d", i, got.Index, 4-i)
		}
	}

	if h.Get(3) != nil || h.Get(-1) != nil {
		t.Fatalf("expected out of range lookups to return nil")
	}
}
