package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OutputDir != "data/processed" {
		t.Errorf("OutputDir = %v, want data/processed", cfg.OutputDir)
	}
	if cfg.TopN != 5 {
		t.Errorf("TopN = %v, want 5", cfg.TopN)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "output_dir: /tmp/out\ntop_n: 10\nearliest_report: \"2015-06-01\"\n"
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %v, want /tmp/out", cfg.OutputDir)
	}
	if cfg.TopN != 10 {
		t.Errorf("TopN = %v, want 10", cfg.TopN)
	}
	// Untouched keys keep their defaults.
	if cfg.FutureSkew != "24h" {
		t.Errorf("FutureSkew = %v, want 24h", cfg.FutureSkew)
	}

	earliest, _, err := cfg.Window(time.Now())
	if err != nil {
		t.Fatalf("Window() error = %v", err)
	}
	if !earliest.Equal(time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("earliest = %v, want 2015-06-01", earliest)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BOUNTYLENS_TOP_N", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TopN != 3 {
		t.Errorf("TopN = %v, want 3 from env", cfg.TopN)
	}
}

func TestLoadRejectsBadWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("earliest_report: \"garbage\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want earliest_report parse failure")
	}
}
