// Package config provides configuration loading and structs for filingsearch.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Data     DataConfig     `yaml:"data"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Index    IndexConfig    `yaml:"index"`
	Search   SearchConfig   `yaml:"search"`
	Server   ServerConfig   `yaml:"server"`
}

// DataConfig holds filesystem locations for the pipeline stages.
type DataConfig struct {
	RawDir       string `yaml:"raw_dir"`
	ProcessedDir string `yaml:"processed_dir"`
	ManifestPath string `yaml:"manifest_path"`
	CorpusDBPath string `yaml:"corpus_db_path"`
	ArtifactPath string `yaml:"artifact_path"`
}

// ChunkingConfig holds the word-window parameters.
type ChunkingConfig struct {
	MaxTokens int `yaml:"max_tokens"`
	Overlap   int `yaml:"overlap"`
}

// IndexConfig holds vocabulary pruning parameters.
type IndexConfig struct {
	MinDF int     `yaml:"min_df"`
	MaxDF float64 `yaml:"max_df"`
}

// SearchConfig holds query defaults and the closed ticker filter set.
type SearchConfig struct {
	DefaultTopK int      `yaml:"default_top_k"`
	Tickers     []string `yaml:"tickers"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Load reads and parses the config file at path, applies defaults, and
// expands relative paths against the config file's directory.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Data.RawDir = expandPath(cfg.Data.RawDir, configDir)
	cfg.Data.ProcessedDir = expandPath(cfg.Data.ProcessedDir, configDir)
	cfg.Data.ManifestPath = expandPath(cfg.Data.ManifestPath, configDir)
	cfg.Data.CorpusDBPath = expandPath(cfg.Data.CorpusDBPath, configDir)
	cfg.Data.ArtifactPath = expandPath(cfg.Data.ArtifactPath, configDir)
	return &cfg, nil
}

// expandPath converts a relative path to absolute, relative to configDir.
func expandPath(path, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(configDir, path)
}
