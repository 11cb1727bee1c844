package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/lexfin/filingsearch/internal/models"
	"github.com/lexfin/filingsearch/internal/segment"
)

func writeProcessed(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuild_metadataCarried(t *testing.T) {
	dir := t.TempDir()
	path := writeProcessed(t, dir, "MSFT_10K_FY2025_RiskFactors.txt",
		"first paragraph text\n\nsecond paragraph text\n\nthird paragraph text")

	b := NewBuilder(segment.NewSegmenter(segment.DefaultMaxTokens, segment.DefaultOverlap), zap.NewNop())
	chunks, err := b.Build([]models.ManifestRecord{{
		Ticker: "MSFT", Source: "10K", PeriodLabel: "FY2025", Section: "RiskFactors",
		Filename: "MSFT_10K_FY2025_RiskFactors.txt", ProcessedPath: path,
	}})
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if c.Ticker != "MSFT" || c.DocType != "10K" || c.PeriodLabel != "FY2025" ||
			c.Section != "RiskFactors" || c.SourceFile != "MSFT_10K_FY2025_RiskFactors.txt" {
			t.Errorf("chunk %d metadata = %+v", i, c)
		}
		if c.ParaID != i || c.ChunkID != 0 {
			t.Errorf("chunk %d indices = (%d,%d), want (%d,0)", i, c.ParaID, c.ChunkID, i)
		}
	}
}

func TestBuild_manifestOrderPreserved(t *testing.T) {
	dir := t.TempDir()
	pa := writeProcessed(t, dir, "a.txt", "alpha one\n\nalpha two\n\nalpha three")
	pb := writeProcessed(t, dir, "b.txt", "beta one\n\nbeta two\n\nbeta three")

	b := NewBuilder(segment.NewSegmenter(segment.DefaultMaxTokens, segment.DefaultOverlap), zap.NewNop())
	chunks, err := b.Build([]models.ManifestRecord{
		{Ticker: "NVDA", Source: "10K", PeriodLabel: "FY2025", Filename: "b.txt", ProcessedPath: pb},
		{Ticker: "MSFT", Source: "10K", PeriodLabel: "FY2025", Filename: "a.txt", ProcessedPath: pa},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 6 {
		t.Fatalf("got %d chunks, want 6", len(chunks))
	}
	for i := 0; i < 3; i++ {
		if chunks[i].SourceFile != "b.txt" {
			t.Errorf("chunk %d from %q, want first manifest record", i, chunks[i].SourceFile)
		}
	}
	for i := 3; i < 6; i++ {
		if chunks[i].SourceFile != "a.txt" {
			t.Errorf("chunk %d from %q, want second manifest record", i, chunks[i].SourceFile)
		}
	}
}

func TestBuild_skipsFailedRecords(t *testing.T) {
	dir := t.TempDir()
	path := writeProcessed(t, dir, "good.txt", "some paragraph\n\nanother paragraph\n\nthird one")

	b := NewBuilder(segment.NewSegmenter(segment.DefaultMaxTokens, segment.DefaultOverlap), zap.NewNop())
	chunks, err := b.Build([]models.ManifestRecord{
		{Filename: "bad.pdf", Error: "extract failed"},
		{Ticker: "JPM", Source: "10K", PeriodLabel: "FY2025", Filename: "good.txt", ProcessedPath: path},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range chunks {
		if c.SourceFile != "good.txt" {
			t.Errorf("failed record leaked into corpus: %+v", c)
		}
	}
}

func TestBuild_missingProcessedFileSkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeProcessed(t, dir, "present.txt", "one\n\ntwo\n\nthree")

	b := NewBuilder(segment.NewSegmenter(segment.DefaultMaxTokens, segment.DefaultOverlap), zap.NewNop())
	chunks, err := b.Build([]models.ManifestRecord{
		{Ticker: "MSFT", Source: "10K", PeriodLabel: "FY2025", Filename: "gone.txt",
			ProcessedPath: filepath.Join(dir, "gone.txt")},
		{Ticker: "MSFT", Source: "10K", PeriodLabel: "FY2025", Filename: "present.txt", ProcessedPath: path},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3 from the surviving document", len(chunks))
	}
}
