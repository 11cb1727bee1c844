package corpus

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lexfin/filingsearch/internal/models"
)

func testChunks() []models.Chunk {
	return []models.Chunk{
		{Ticker: "MSFT", DocType: "10K", PeriodLabel: "FY2025", Section: "RiskFactors",
			SourceFile: "a.txt", ProcessedPath: "/tmp/a.txt", ParaID: 0, ChunkID: 0, Text: "first"},
		{Ticker: "MSFT", DocType: "10K", PeriodLabel: "FY2025", Section: "RiskFactors",
			SourceFile: "a.txt", ProcessedPath: "/tmp/a.txt", ParaID: 1, ChunkID: 0, Text: "second"},
		{Ticker: "NVDA", DocType: "EarningsCall", PeriodLabel: "CY2025", Quarter: "Q2",
			SourceFile: "b.txt", ProcessedPath: "/tmp/b.txt", ParaID: 0, ChunkID: 0, Text: "third"},
	}
}

func TestStore_saveLoadRoundTrip(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	want := testChunks()
	if err := store.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d chunks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStore_saveReplaces(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Save(ctx, testChunks()); err != nil {
		t.Fatal(err)
	}
	replacement := testChunks()[:1]
	if err := store.Save(ctx, replacement); err != nil {
		t.Fatal(err)
	}
	n, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("count after replace = %d, want 1", n)
	}
}

func TestStore_emptyLoad(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	chunks, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("fresh store should be empty, got %d chunks", len(chunks))
	}
}

func TestStore_createsParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "corpus.db")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.Save(context.Background(), testChunks()); err != nil {
		t.Fatal(err)
	}
}
