package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Point at an empty config so host defaults are exercised.
	tmp := t.TempDir()
	t.Setenv("PHYSIOBRIDGE_CONFIG", filepath.Join(tmp, "config.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network.Host != "127.0.0.1" {
		t.Errorf("default host = %q, want 127.0.0.1", cfg.Network.Host)
	}
	if cfg.Network.Port != 9000 {
		t.Errorf("default port = %d, want 9000", cfg.Network.Port)
	}
	if !cfg.Network.Enabled {
		t.Error("UDP transmit should default on")
	}
	if !cfg.Streams.ECG || !cfg.Streams.HR {
		t.Error("streams should default on")
	}
	if cfg.Mirror.Enabled {
		t.Error("mirror should default off")
	}
	if cfg.Mirror.TopicRoot != "physiobridge" {
		t.Errorf("mirror topic root = %q", cfg.Mirror.TopicRoot)
	}
	if !cfg.Archive.Enabled {
		t.Error("archive should default on")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("PHYSIOBRIDGE_CONFIG", filepath.Join(tmp, "config.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Subject.ID = "sub001"
	cfg.Subject.Group = "control"
	cfg.Network.Host = "10.0.0.42"
	cfg.Network.Port = 5005
	cfg.Streams.PPG = false
	cfg.Mirror.Enabled = true

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if got.Subject.ID != "sub001" {
		t.Errorf("subject id = %q, want sub001", got.Subject.ID)
	}
	if got.Network.Host != "10.0.0.42" || got.Network.Port != 5005 {
		t.Errorf("endpoint = %s:%d, want 10.0.0.42:5005", got.Network.Host, got.Network.Port)
	}
	if got.Streams.PPG {
		t.Error("PPG toggle should persist off")
	}
	if !got.Mirror.Enabled {
		t.Error("mirror toggle should persist on")
	}
}

func TestEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("PHYSIOBRIDGE_CONFIG", filepath.Join(tmp, "config.toml"))
	t.Setenv("PHYSIOBRIDGE_NETWORK_HOST", "192.168.4.20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network.Host != "192.168.4.20" {
		t.Errorf("env override host = %q, want 192.168.4.20", cfg.Network.Host)
	}
}

func TestSaveCreatesConfigDir(t *testing.T) {
	tmp := t.TempDir()
	nested := filepath.Join(tmp, "deep", "dir", "config.toml")
	t.Setenv("PHYSIOBRIDGE_CONFIG", nested)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(nested); err != nil {
		t.Errorf("expected config file at %s: %v", nested, err)
	}
}
