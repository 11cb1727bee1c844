// Package corpus derives the flat chunk table from the manifest and persists
// it. The corpus is the full ordered collection of chunks across all
// documents; order is significant and must match the index matrix rows.
package corpus

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/lexfin/filingsearch/internal/models"
	"github.com/lexfin/filingsearch/internal/segment"
)

// Builder turns manifest records into chunk rows.
type Builder struct {
	segmenter *segment.Segmenter
	logger    *zap.Logger
}

// NewBuilder creates a corpus builder with the given segmenter.
func NewBuilder(seg *segment.Segmenter, logger *zap.Logger) *Builder {
	return &Builder{segmenter: seg, logger: logger}
}

// Build reads each record's processed file, segments it, and emits one chunk
// row per (paragraph, chunk) pair carrying the document metadata. Records are
// processed in manifest order. A missing processed file is skipped with a
// warning; records that recorded a preprocessing error are skipped silently.
func (b *Builder) Build(records []models.ManifestRecord) ([]models.Chunk, error) {
	var chunks []models.Chunk
	for _, rec := range records {
		if rec.Error != "" || rec.ProcessedPath == "" {
			continue
		}
		text, err := os.ReadFile(rec.ProcessedPath)
		if err != nil {
			if os.IsNotExist(err) {
				b.logger.Warn("missing processed file, skipping document",
					zap.String("file", rec.Filename),
					zap.String("processed_path", rec.ProcessedPath),
				)
				continue
			}
			return nil, fmt.Errorf("read processed file %s: %w", rec.ProcessedPath, err)
		}
		for _, piece := range b.segmenter.Segment(string(text)) {
			chunks = append(chunks, models.Chunk{
				Ticker:        rec.Ticker,
				DocType:       rec.Source,
				PeriodLabel:   rec.PeriodLabel,
				Quarter:       rec.Quarter,
				Section:       rec.Section,
				SourceFile:    rec.Filename,
				ProcessedPath: rec.ProcessedPath,
				ParaID:        piece.ParaID,
				ChunkID:       piece.ChunkID,
				Text:          piece.Text,
			})
		}
	}
	return chunks, nil
}
