package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultExploreConfigIsValid(t *testing.T) {
	cfg := DefaultExploreConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults failed validation: %v", err)
	}
	if *cfg.Adherer != "const" {
		t.Errorf("default adherer = %q", *cfg.Adherer)
	}
}

func TestLoadExploreConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explore.json")
	doc := `{"dims": 5, "jump_distance": 0.1, "margin": 0.09, "adherer": "bsearch"}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadExploreConfig(path)
	if err != nil {
		t.Fatalf("LoadExploreConfig: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("merged config failed validation: %v", err)
	}

	if *cfg.Dims != 5 || *cfg.JumpDistance != 0.1 || *cfg.Margin != 0.09 {
		t.Errorf("overrides lost: dims=%d jump=%v margin=%v", *cfg.Dims, *cfg.JumpDistance, *cfg.Margin)
	}
	if *cfg.Adherer != "bsearch" {
		t.Errorf("adherer override lost: %q", *cfg.Adherer)
	}
	// untouched fields keep their defaults
	if *cfg.DeltaAngleDeg != 15 {
		t.Errorf("default delta angle lost: %v", *cfg.DeltaAngleDeg)
	}
	if *cfg.Seed != 1 {
		t.Errorf("default seed lost: %v", *cfg.Seed)
	}
}

func TestLoadExploreConfigEmptyPath(t *testing.T) {
	cfg, err := LoadExploreConfig("")
	if err != nil {
		t.Fatalf("LoadExploreConfig: %v", err)
	}
	if *cfg.Dims != 3 {
		t.Errorf("empty path should return defaults, dims=%d", *cfg.Dims)
	}
}

func TestLoadExploreConfigErrors(t *testing.T) {
	if _, err := LoadExploreConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file accepted")
	}

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadExploreConfig(path); err == nil {
		t.Error("malformed file accepted")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []func(*ExploreConfig){
		func(c *ExploreConfig) { c.Dims = ptrInt(1) },
		func(c *ExploreConfig) { c.JumpDistance = ptrFloat64(0) },
		func(c *ExploreConfig) { c.Margin = ptrFloat64(0.05) }, // equal to jump
		func(c *ExploreConfig) { c.Margin = ptrFloat64(-1) },
		func(c *ExploreConfig) { c.Adherer = ptrString("walk") },
	}
	for i, mutate := range cases {
		cfg := DefaultExploreConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d accepted an invalid config", i)
		}
	}
}
