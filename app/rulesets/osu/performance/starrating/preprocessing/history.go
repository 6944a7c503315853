package preprocessing

// ObjectHistory is a fixed-capacity ring buffer of recently processed objects.
// Get(0) is the most recently pushed object.
type ObjectHistory struct {
	items []*DifficultyObject
	head  int
	count int
}

func NewObjectHistory(capacity int) *ObjectHistory {
	return &ObjectHistory{items: make([]*DifficultyObject, max(capacity, 1))}
}

func (h *ObjectHistory) Push(o *DifficultyObject) {
	h.head = (h.head + 1) % len(h.items)
	h.items[h.head] = o

	if h.count < len(h.items) {
		h.count++
	}
}

func (h *ObjectHistory) Get(i int) *DifficultyObject {
	if i < 0 || i >= h.count {
		return nil
	}

	return h.items[(h.head-i+len(h.items))%len(h.items)]
}

func (h *ObjectHistory) Len() int {
	return h.count
}

func (h *ObjectHistory) Cap() int {
	return len(h.items)
}
