package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/az-ai-labs/spellgraph/internal/errs"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("listen_addr = %q", cfg.ListenAddr)
	}
	if cfg.Ingest.Boundary != 100 || cfg.Ingest.Workers != 4 {
		t.Errorf("ingest defaults = %+v", cfg.Ingest)
	}
	if cfg.SyncMetadataTimeoutMS != 60000 {
		t.Errorf("sync_metadata_timeout_ms = %d", cfg.SyncMetadataTimeoutMS)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
listen_addr: ":9090"
detector_path: /tmp/detector.bin
languages:
  - lang: russian
    store_dir: /var/lib/spellgraph/ru
  - lang: english
    store_dir: /var/lib/spellgraph/en
    alphabet: abcdefghijklmnopqrstuvwxyz
    seed_stems: true
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("listen_addr = %q", cfg.ListenAddr)
	}
	if len(cfg.Languages) != 2 {
		t.Fatalf("languages = %+v", cfg.Languages)
	}
	if cfg.Languages[1].Lang != "english" || !cfg.Languages[1].SeedStems {
		t.Errorf("languages[1] = %+v", cfg.Languages[1])
	}
}

func TestLoadRejectsIncompleteLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
languages:
  - lang: russian
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Load(path)
	if errs.KindOf(err) != errs.InvalidArgument {
		t.Errorf("kind = %v, want InvalidArgument", errs.KindOf(err))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("missing file must fail")
	}
}
