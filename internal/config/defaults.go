package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Data.RawDir == "" {
		cfg.Data.RawDir = "data/raw"
	}
	if cfg.Data.ProcessedDir == "" {
		cfg.Data.ProcessedDir = "data/processed"
	}
	if cfg.Data.ManifestPath == "" {
		cfg.Data.ManifestPath = "data/processed/manifest.csv"
	}
	if cfg.Data.CorpusDBPath == "" {
		cfg.Data.CorpusDBPath = "data/processed/corpus.db"
	}
	if cfg.Data.ArtifactPath == "" {
		cfg.Data.ArtifactPath = "artifacts/tfidf_index.bin"
	}
	if cfg.Chunking.MaxTokens == 0 {
		cfg.Chunking.MaxTokens = 180
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 30
	}
	if cfg.Index.MinDF == 0 {
		cfg.Index.MinDF = 2
	}
	if cfg.Index.MaxDF == 0 {
		cfg.Index.MaxDF = 0.9
	}
	if cfg.Search.DefaultTopK == 0 {
		cfg.Search.DefaultTopK = 5
	}
	if cfg.Search.Tickers == nil {
		cfg.Search.Tickers = []string{"MSFT", "NVDA", "JPM"}
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
}
