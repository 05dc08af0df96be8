package config

import (
	"path/filepath"
	"testing"

	"github.com/go-dshot/dshot/dshot"
)

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	want := DefaultConfig()
	if cfg.Pin != want.Pin || cfg.Mode != want.Mode || cfg.Bidirectional != want.Bidirectional {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, want)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dshot.yaml")
	cfg := DefaultConfig()
	cfg.path = path
	cfg.Pin = "GPIO4"
	cfg.Mode = "1200"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := LoadConfig(path)
	if loaded.Pin != "GPIO4" || loaded.Mode != "1200" {
		t.Errorf("loaded = %+v, want Pin=GPIO4 Mode=1200", loaded)
	}
}

func TestDShotModeParsesAllRates(t *testing.T) {
	cases := map[string]dshot.Mode{
		"150": dshot.Mode150, "300": dshot.Mode300, "600": dshot.Mode600, "1200": dshot.Mode1200,
	}
	for s, want := range cases {
		cfg := &Config{Mode: s}
		got, err := cfg.DShotMode()
		if err != nil {
			t.Fatalf("Mode %q: %v", s, err)
		}
		if got != want {
			t.Errorf("Mode %q: got %v, want %v", s, got, want)
		}
	}
}

func TestDShotModeRejectsUnknown(t *testing.T) {
	cfg := &Config{Mode: "42"}
	if _, err := cfg.DShotMode(); err == nil {
		t.Fatal("expected an error for an unknown mode string")
	}
}
