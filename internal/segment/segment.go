// Package segment splits normalized text into paragraphs and overlapping
// word-window chunks.
package segment

import (
	"regexp"
	"strings"
)

// Default window parameters, in words.
const (
	DefaultMaxTokens = 180
	DefaultOverlap   = 30
)

// Paragraph boundaries: blank-line runs, or long dotted leaders as a secondary
// signal for table-of-contents style lines. The leader branch rarely fires on
// normalized input because dot runs are collapsed to "..." upstream.
var paraSplit = regexp.MustCompile(`\n{2,}|\.{6,}`)

// SplitParagraphs splits text into coarse paragraphs. If splitting yields two
// or fewer non-empty segments, the whole text is treated as one paragraph:
// the split produced no useful structure (typical for transcripts without
// blank-line paragraphing).
func SplitParagraphs(text string) []string {
	segs := paraSplit.Split(text, -1)
	paras := make([]string, 0, len(segs))
	for _, seg := range segs {
		if seg = strings.TrimSpace(seg); seg != "" {
			paras = append(paras, seg)
		}
	}
	if len(paras) <= 2 {
		return []string{strings.TrimSpace(text)}
	}
	return paras
}

// Chunker splits a paragraph into fixed-size overlapping word windows.
type Chunker struct {
	maxTokens int
	overlap   int
}

// NewChunker creates a chunker with the given window size and overlap (in words).
func NewChunker(maxTokens, overlap int) *Chunker {
	return &Chunker{maxTokens: maxTokens, overlap: overlap}
}

// Chunk slides a window of maxTokens words over the paragraph with step
// maxTokens-overlap. Windowing stops once the unconsumed tail is within
// overlap words of the end, so the final window still captures the tail even
// though it may be short. An empty paragraph yields no chunks; a paragraph
// shorter than one window yields exactly one.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	step := c.maxTokens - c.overlap
	if step <= 0 {
		step = 1
	}
	limit := len(words) - c.overlap
	if limit < 1 {
		limit = 1
	}
	chunks := make([]string, 0, (limit+step-1)/step)
	for i := 0; i < limit; i += step {
		end := i + c.maxTokens
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// Piece is one chunk with its position: paragraph index within the document
// and chunk index within the paragraph, both zero-based.
type Piece struct {
	ParaID  int
	ChunkID int
	Text    string
}

// Segmenter combines paragraph splitting and chunking.
type Segmenter struct {
	chunker *Chunker
}

// NewSegmenter creates a segmenter with the given window parameters.
func NewSegmenter(maxTokens, overlap int) *Segmenter {
	return &Segmenter{chunker: NewChunker(maxTokens, overlap)}
}

// Segment returns all pieces of text in document order. Paragraph indices
// advance for every paragraph in traversal order, including ones that produce
// no chunks; chunk indices restart at zero per paragraph.
func (s *Segmenter) Segment(text string) []Piece {
	var pieces []Piece
	for paraID, para := range SplitParagraphs(text) {
		for chunkID, chunk := range s.chunker.Chunk(para) {
			pieces = append(pieces, Piece{ParaID: paraID, ChunkID: chunkID, Text: chunk})
		}
	}
	return pieces
}
