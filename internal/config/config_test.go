package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_defaults(t *testing.T) {
	path := writeConfig(t, "debug: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true")
	}
	if cfg.Chunking.MaxTokens != 180 || cfg.Chunking.Overlap != 30 {
		t.Errorf("chunking defaults = %+v", cfg.Chunking)
	}
	if cfg.Index.MinDF != 2 || cfg.Index.MaxDF != 0.9 {
		t.Errorf("index defaults = %+v", cfg.Index)
	}
	if cfg.Search.DefaultTopK != 5 {
		t.Errorf("default top_k = %d, want 5", cfg.Search.DefaultTopK)
	}
	if len(cfg.Search.Tickers) != 3 {
		t.Errorf("default tickers = %v", cfg.Search.Tickers)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
}

func TestLoad_relativePathsExpanded(t *testing.T) {
	path := writeConfig(t, `
data:
  raw_dir: raw
  artifact_path: out/index.bin
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(path)
	if cfg.Data.RawDir != filepath.Join(dir, "raw") {
		t.Errorf("raw_dir = %q, want it rooted at config dir", cfg.Data.RawDir)
	}
	if cfg.Data.ArtifactPath != filepath.Join(dir, "out", "index.bin") {
		t.Errorf("artifact_path = %q", cfg.Data.ArtifactPath)
	}
}

func TestLoad_absolutePathsKept(t *testing.T) {
	path := writeConfig(t, "data:\n  raw_dir: /var/data/raw\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Data.RawDir != "/var/data/raw" {
		t.Errorf("absolute path rewritten to %q", cfg.Data.RawDir)
	}
}

func TestLoad_overrides(t *testing.T) {
	path := writeConfig(t, `
chunking:
  max_tokens: 120
  overlap: 20
index:
  min_df: 3
  max_df: 0.8
search:
  default_top_k: 10
  tickers: [MSFT, AAPL]
server:
  host: 0.0.0.0
  port: 9090
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chunking.MaxTokens != 120 || cfg.Chunking.Overlap != 20 {
		t.Errorf("chunking = %+v", cfg.Chunking)
	}
	if cfg.Index.MinDF != 3 || cfg.Index.MaxDF != 0.8 {
		t.Errorf("index = %+v", cfg.Index)
	}
	if cfg.Search.DefaultTopK != 10 {
		t.Errorf("top_k = %d", cfg.Search.DefaultTopK)
	}
	if len(cfg.Search.Tickers) != 2 || cfg.Search.Tickers[1] != "AAPL" {
		t.Errorf("tickers = %v", cfg.Search.Tickers)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9090 {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	path := writeConfig(t, "debug: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}
