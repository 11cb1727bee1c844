// Package index builds and persists the search index artifact: the fitted
// vector model, the sparse document-term matrix, and the corpus metadata
// table, bundled in a single file. The three pieces version together; a
// matrix is meaningless without the vocabulary that produced it.
package index

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/lexfin/filingsearch/internal/models"
	"github.com/lexfin/filingsearch/internal/tfidf"
)

// File format: magic, version, then three length-prefixed sections
// (JSON model header, binary matrix rows, JSON chunk metadata).
var magic = [4]byte{'F', 'S', 'I', 'X'}

const formatVersion uint32 = 1

// Artifact is the persisted index bundle. Matrix row i corresponds exactly to
// Meta row i; the two must never be reordered independently.
type Artifact struct {
	BuildID string
	BuiltAt time.Time
	Model   *tfidf.Vectorizer
	Matrix  []tfidf.Vector
	Meta    []models.Chunk
}

// Build fits the vector model over the corpus and materializes the
// document-term matrix. Each chunk is indexed by its text augmented with
// metadata tokens (ticker, doc type, period, section). An empty corpus is an
// error: an empty artifact would be useless.
func Build(corpus []models.Chunk, cfg tfidf.Config) (*Artifact, error) {
	if len(corpus) == 0 {
		return nil, errors.New("corpus is empty; nothing to index")
	}
	texts := make([]string, len(corpus))
	for i := range corpus {
		texts[i] = corpus[i].IndexText()
	}
	model := tfidf.NewVectorizer(cfg)
	matrix, err := model.FitTransform(texts)
	if err != nil {
		return nil, fmt.Errorf("fit vector model: %w", err)
	}
	return &Artifact{
		BuildID: uuid.New().String(),
		BuiltAt: time.Now().UTC(),
		Model:   model,
		Matrix:  matrix,
		Meta:    corpus,
	}, nil
}

// header is the JSON model section of the artifact file.
type header struct {
	BuildID string       `json:"build_id"`
	BuiltAt time.Time    `json:"built_at"`
	Config  tfidf.Config `json:"config"`
	Terms   []string     `json:"terms"`
	IDF     []float64    `json:"idf"`
}

// Save writes the artifact to path. The parent directory is created if
// needed. The write goes to a temp file first and is renamed into place, so a
// reader never observes a half-written artifact.
func (a *Artifact) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create artifact file: %w", err)
	}
	if err := a.write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close artifact file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace artifact file: %w", err)
	}
	return nil
}

func (a *Artifact) write(w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return fmt.Errorf("write version: %w", err)
	}

	hdr, err := json.Marshal(header{
		BuildID: a.BuildID,
		BuiltAt: a.BuiltAt,
		Config:  a.Model.Config(),
		Terms:   a.Model.Terms(),
		IDF:     a.Model.IDF(),
	})
	if err != nil {
		return fmt.Errorf("marshal model header: %w", err)
	}
	if err := writeBlock(w, hdr); err != nil {
		return fmt.Errorf("write model header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(a.Matrix))); err != nil {
		return fmt.Errorf("write row count: %w", err)
	}
	for _, row := range a.Matrix {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(row))); err != nil {
			return fmt.Errorf("write row size: %w", err)
		}
		for _, e := range row {
			if err := binary.Write(w, binary.LittleEndian, uint32(e.Term)); err != nil {
				return fmt.Errorf("write term index: %w", err)
			}
			if err := binary.Write(w, binary.LittleEndian, math.Float64bits(e.Weight)); err != nil {
				return fmt.Errorf("write term weight: %w", err)
			}
		}
	}

	meta, err := json.Marshal(a.Meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := writeBlock(w, meta); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// Load reads an artifact from path. The model is restored without re-fitting.
func Load(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact file: %w", err)
	}
	defer f.Close()

	var m [4]byte
	if _, err := io.ReadFull(f, m[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if m != magic {
		return nil, fmt.Errorf("not an index artifact: bad magic %q", m[:])
	}
	var version uint32
	if err := binary.Read(f, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("unsupported artifact version %d (want %d)", version, formatVersion)
	}

	hdrBytes, err := readBlock(f)
	if err != nil {
		return nil, fmt.Errorf("read model header: %w", err)
	}
	var hdr header
	if err := json.Unmarshal(hdrBytes, &hdr); err != nil {
		return nil, fmt.Errorf("parse model header: %w", err)
	}
	model, err := tfidf.Restore(hdr.Config, hdr.Terms, hdr.IDF)
	if err != nil {
		return nil, fmt.Errorf("restore vector model: %w", err)
	}

	var rows uint32
	if err := binary.Read(f, binary.LittleEndian, &rows); err != nil {
		return nil, fmt.Errorf("read row count: %w", err)
	}
	matrix := make([]tfidf.Vector, rows)
	for i := uint32(0); i < rows; i++ {
		var nnz uint32
		if err := binary.Read(f, binary.LittleEndian, &nnz); err != nil {
			return nil, fmt.Errorf("read row %d size: %w", i, err)
		}
		if nnz == 0 {
			continue
		}
		row := make(tfidf.Vector, nnz)
		for j := uint32(0); j < nnz; j++ {
			var term uint32
			var bits uint64
			if err := binary.Read(f, binary.LittleEndian, &term); err != nil {
				return nil, fmt.Errorf("read row %d term: %w", i, err)
			}
			if err := binary.Read(f, binary.LittleEndian, &bits); err != nil {
				return nil, fmt.Errorf("read row %d weight: %w", i, err)
			}
			row[j] = tfidf.Entry{Term: int(term), Weight: math.Float64frombits(bits)}
		}
		matrix[i] = row
	}

	metaBytes, err := readBlock(f)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var meta []models.Chunk
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	if len(meta) != len(matrix) {
		return nil, fmt.Errorf("artifact corrupt: %d metadata rows but %d matrix rows", len(meta), len(matrix))
	}

	return &Artifact{
		BuildID: hdr.BuildID,
		BuiltAt: hdr.BuiltAt,
		Model:   model,
		Matrix:  matrix,
		Meta:    meta,
	}, nil
}

// Size returns the number of indexed chunks.
func (a *Artifact) Size() int { return len(a.Meta) }

func writeBlock(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBlock(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
