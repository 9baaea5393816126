package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyFileOverlaysOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "model_path = \"/tmp/m.bin\"\nhidden = 128\nlearning_rate = 0.01\nwatch_debounce = \"1s\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := ApplyFile(&cfg, path); err != nil {
		t.Fatal(err)
	}
	if cfg.ModelPath != "/tmp/m.bin" || cfg.Hidden != 128 || cfg.LearningRate != 0.01 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.WatchDebounce != time.Second {
		t.Fatalf("duration not parsed: %v", cfg.WatchDebounce)
	}
	// Untouched fields keep their defaults.
	def := DefaultConfig()
	if cfg.Epochs != def.Epochs || cfg.Seed != def.Seed || cfg.DomainColumn != def.DomainColumn {
		t.Fatalf("unset fields overwritten: %+v", cfg)
	}
}

func TestApplyFileMissingIsFine(t *testing.T) {
	cfg := DefaultConfig()
	if err := ApplyFile(&cfg, filepath.Join(t.TempDir(), "nope.toml")); err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
}

func TestApplyFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("hidden = ["), 0o600)
	cfg := DefaultConfig()
	if err := ApplyFile(&cfg, path); err == nil {
		t.Fatal("malformed TOML must error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DGADETECT_MODEL", "/tmp/env.bin")
	t.Setenv("DGADETECT_SEED", "7")
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	if cfg.ModelPath != "/tmp/env.bin" || cfg.Seed != 7 {
		t.Fatalf("env not applied: %+v", cfg)
	}
}
