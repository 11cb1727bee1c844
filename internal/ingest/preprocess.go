// Package ingest runs the preprocessing pass: raw filings are extracted,
// normalized, written to the processed directory, and described by manifest
// records.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/lexfin/filingsearch/internal/extract"
	"github.com/lexfin/filingsearch/internal/manifest"
	"github.com/lexfin/filingsearch/internal/models"
	"github.com/lexfin/filingsearch/internal/normalize"
)

// Preprocessor normalizes raw filings into the processed directory.
type Preprocessor struct {
	rawDir       string
	processedDir string
	extractor    *extract.Extractor
	logger       *zap.Logger
}

// NewPreprocessor creates a preprocessor reading from rawDir and writing to
// processedDir.
func NewPreprocessor(rawDir, processedDir string, logger *zap.Logger) *Preprocessor {
	return &Preprocessor{
		rawDir:       rawDir,
		processedDir: processedDir,
		extractor:    extract.NewExtractor(),
		logger:       logger,
	}
}

// Run processes every supported file in the raw directory in case-insensitive
// name order and returns one manifest record per file. A failure on a single
// document never aborts the pass: the error is recorded on that document's
// manifest row and processing continues.
func (p *Preprocessor) Run() ([]models.ManifestRecord, error) {
	if err := os.MkdirAll(p.processedDir, 0755); err != nil {
		return nil, fmt.Errorf("create processed dir: %w", err)
	}
	entries, err := os.ReadDir(p.rawDir)
	if err != nil {
		return nil, fmt.Errorf("read raw dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !extract.Supported(filepath.Ext(e.Name())) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	records := make([]models.ManifestRecord, 0, len(names))
	for _, name := range names {
		rec, err := p.processFile(name)
		if err != nil {
			p.logger.Warn("preprocess failed", zap.String("file", name), zap.Error(err))
			records = append(records, models.ManifestRecord{
				Filename:   name,
				IngestedAt: timestamp(),
				Error:      err.Error(),
			})
			continue
		}
		p.logger.Debug("preprocessed",
			zap.String("file", name),
			zap.Int("chars", rec.Chars),
			zap.String("processed_path", rec.ProcessedPath),
		)
		records = append(records, rec)
	}
	return records, nil
}

func (p *Preprocessor) processFile(name string) (models.ManifestRecord, error) {
	rec, err := manifest.ParseFilename(name)
	if err != nil {
		return models.ManifestRecord{}, err
	}
	raw, err := p.extractor.Extract(filepath.Join(p.rawDir, name))
	if err != nil {
		return models.ManifestRecord{}, err
	}
	cleaned := normalize.Normalize(raw)

	base := name[:len(name)-len(filepath.Ext(name))]
	outPath := filepath.Join(p.processedDir, base+".txt")
	if err := os.WriteFile(outPath, []byte(cleaned), 0644); err != nil {
		return models.ManifestRecord{}, fmt.Errorf("write processed file: %w", err)
	}

	rec.Chars = utf8.RuneCountInString(cleaned)
	rec.ProcessedPath = outPath
	rec.IngestedAt = timestamp()
	return rec, nil
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
