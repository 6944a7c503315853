package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	s, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Mode != DefaultMode || s.SingletapThreshold != DefaultSingletapThreshold || s.BeatmapSource != SourceLibrary {
		t.Fatalf("unexpected defaults %+v", s)
	}

	if s.DatabasePath != filepath.Join("/data", "starpp", "starpp.db") {
		t.Fatalf("unexpected database path %s", s.DatabasePath)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	content := `
[rating]
mode = "droid"
singletap-threshold = 150.0
old-statistics = true

[beatmaps]
source = "osuapi"

[osuapi]
client-id = "123"
client-secret = "secret"

[database]
path = "/tmp/starpp.db"
`

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Mode != "droid" || s.SingletapThreshold != 150 || !s.OldStatistics {
		t.Fatalf("unexpected rating settings %+v", s)
	}

	if s.BeatmapSource != SourceOsuAPI || s.OsuClientID != "123" || s.OsuClientSecret != "secret" {
		t.Fatalf("unexpected api settings %+v", s)
	}

	if s.DatabasePath != "/tmp/starpp.db" || s.Workers != 0 {
		t.Fatalf("unexpected settings %+v", s)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(broken, []byte("[rating\nmode ="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(broken); err == nil {
		t.Fatalf("expected decode error")
	}

	source := filepath.Join(dir, "source.toml")
	if err := os.WriteFile(source, []byte("[beatmaps]\nsource = \"ftp\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(source); err == nil {
		t.Fatalf("expected unknown source to be rejected")
	}
}
