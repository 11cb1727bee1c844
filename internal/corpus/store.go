package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lexfin/filingsearch/internal/models"
)

// Store persists the chunk table in SQLite. Row order is preserved: Load
// returns chunks in the exact order Save received them.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the corpus database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func OpenStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create corpus db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open corpus db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS chunks (
		seq INTEGER PRIMARY KEY,
		ticker TEXT NOT NULL,
		doc_type TEXT NOT NULL,
		period_label TEXT NOT NULL,
		quarter TEXT,
		section TEXT,
		source_file TEXT NOT NULL,
		processed_path TEXT NOT NULL,
		para_id INTEGER NOT NULL,
		chunk_id INTEGER NOT NULL,
		text TEXT NOT NULL,
		UNIQUE (source_file, para_id, chunk_id)
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_ticker ON chunks(ticker);
	CREATE INDEX IF NOT EXISTS idx_chunks_doc_type ON chunks(doc_type);
	`
	_, err := db.Exec(schema)
	return err
}

// Save replaces the stored corpus with chunks, preserving their order.
func (s *Store) Save(ctx context.Context, chunks []models.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (seq, ticker, doc_type, period_label, quarter, section,
		 source_file, processed_path, para_id, chunk_id, text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, i, c.Ticker, c.DocType, c.PeriodLabel,
			c.Quarter, c.Section, c.SourceFile, c.ProcessedPath, c.ParaID, c.ChunkID, c.Text); err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Load returns all chunks in stored order.
func (s *Store) Load(ctx context.Context) ([]models.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ticker, doc_type, period_label, quarter, section,
		 source_file, processed_path, para_id, chunk_id, text
		 FROM chunks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var c models.Chunk
		if err := rows.Scan(&c.Ticker, &c.DocType, &c.PeriodLabel, &c.Quarter, &c.Section,
			&c.SourceFile, &c.ProcessedPath, &c.ParaID, &c.ChunkID, &c.Text); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
