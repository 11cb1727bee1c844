// Package models defines core data structures for documents, chunks, queries, and search results.
package models

// DocType identifies the kind of source document.
type DocType string

const (
	// DocTypeTenK is an annual report filing.
	DocTypeTenK DocType = "10K"
	// DocTypeEarningsCall is an earnings-call transcript.
	DocTypeEarningsCall DocType = "EarningsCall"
)

// ValidDocType reports whether s is a known document type.
func ValidDocType(s string) bool {
	switch DocType(s) {
	case DocTypeTenK, DocTypeEarningsCall:
		return true
	}
	return false
}

// ManifestRecord is one row of the manifest: provenance metadata for a single
// raw source file produced by the preprocessing pass. Records are append-only
// and immutable once written.
type ManifestRecord struct {
	Ticker        string `json:"ticker"`
	Source        string `json:"source"` // doc type: 10K or EarningsCall
	PeriodLabel   string `json:"period_label"`
	Quarter       string `json:"quarter"` // Q1..Q4, empty for filings
	Section       string `json:"section"` // RiskFactors etc., empty for transcripts
	Filename      string `json:"filename"`
	Chars         int    `json:"chars"`
	ProcessedPath string `json:"processed_path"`
	IngestedAt    string `json:"ingested_at"`
	Error         string `json:"error,omitempty"`
}

// Chunk is the atomic retrieval unit: one overlapping word window of one
// paragraph, carrying its document's metadata. The (SourceFile, ParaID,
// ChunkID) tuple is the natural key, unique within a document.
type Chunk struct {
	Ticker        string `json:"ticker"`
	DocType       string `json:"doc_type"`
	PeriodLabel   string `json:"period_label"`
	Quarter       string `json:"quarter"`
	Section       string `json:"section"`
	SourceFile    string `json:"source_file"`
	ProcessedPath string `json:"processed_path"`
	ParaID        int    `json:"para_id"`
	ChunkID       int    `json:"chunk_id"`
	Text          string `json:"text"`
}

// IndexText returns the text that is fed to the vectorizer: the chunk text
// concatenated with its metadata fields so that query terms like a ticker
// symbol match the chunk's provenance, not just its words.
func (c *Chunk) IndexText() string {
	return c.Text + " " + c.Ticker + " " + c.DocType + " " + c.PeriodLabel + " " + c.Section
}
