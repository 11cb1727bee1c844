// Package tfidf implements the sparse lexical vector model used for chunk
// retrieval: case-folded uni/bi-gram features, English stop-word removal,
// log-dampened term frequency, smoothed inverse document frequency, document
// frequency pruning, and L2-normalized output vectors.
package tfidf

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches word tokens of two or more letters, digits, or
// underscores, mirroring the classic vectorizer token definition.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_]+`)

// Config holds vocabulary pruning parameters.
type Config struct {
	// MinDF drops terms seen in fewer than MinDF documents (noise).
	MinDF int `json:"min_df"`
	// MaxDF drops terms seen in more than MaxDF (fraction) of documents (too common).
	MaxDF float64 `json:"max_df"`
}

// DefaultConfig returns the pruning defaults used for the filing corpus.
func DefaultConfig() Config {
	return Config{MinDF: 2, MaxDF: 0.9}
}

// Entry is one non-zero component of a sparse vector.
type Entry struct {
	Term   int     `json:"t"`
	Weight float64 `json:"w"`
}

// Vector is a sparse vector with entries sorted by term index.
type Vector []Entry

// Dot returns the dot product of two sparse vectors. For vectors produced by
// this package (unit L2 norm) this equals cosine similarity.
func Dot(a, b Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Term < b[j].Term:
			i++
		case a[i].Term > b[j].Term:
			j++
		default:
			sum += a[i].Weight * b[j].Weight
			i++
			j++
		}
	}
	return sum
}

// Vectorizer is a fitted vocabulary plus IDF weights. A zero Vectorizer is
// unfitted; use Fit or Restore before Transform.
type Vectorizer struct {
	cfg   Config
	terms []string
	vocab map[string]int
	idf   []float64
}

// NewVectorizer creates an unfitted vectorizer with the given pruning config.
func NewVectorizer(cfg Config) *Vectorizer {
	return &Vectorizer{cfg: cfg}
}

// features tokenizes text and returns its unigram and bigram features.
func features(text string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	kept := tokens[:0]
	for _, t := range tokens {
		if !isStopword(t) {
			kept = append(kept, t)
		}
	}
	feats := make([]string, 0, 2*len(kept))
	feats = append(feats, kept...)
	for i := 0; i+1 < len(kept); i++ {
		feats = append(feats, kept[i]+" "+kept[i+1])
	}
	return feats
}

// Fit builds the vocabulary and IDF weights from the corpus texts.
// Returns an error when the corpus is empty or pruning leaves no terms.
func (v *Vectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return errors.New("empty corpus")
	}
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, f := range features(doc) {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			df[f]++
		}
	}

	n := len(docs)
	maxCount := int(v.cfg.MaxDF * float64(n))
	terms := make([]string, 0, len(df))
	for term, count := range df {
		if count < v.cfg.MinDF || count > maxCount {
			continue
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return fmt.Errorf("empty vocabulary after pruning (min_df=%d, max_df=%g, %d docs)", v.cfg.MinDF, v.cfg.MaxDF, n)
	}
	sort.Strings(terms)

	v.terms = terms
	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocab[term] = i
		// Smoothed IDF: acts as if every term occurred in one extra document.
		v.idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1.0
	}
	return nil
}

// Transform projects text into the fitted vector space. Features outside the
// vocabulary contribute nothing; this is expected for out-of-vocabulary query
// terms. The returned vector has unit L2 norm (or is empty when no feature
// matched).
func (v *Vectorizer) Transform(text string) Vector {
	counts := make(map[int]int)
	for _, f := range features(text) {
		if idx, ok := v.vocab[f]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	vec := make(Vector, 0, len(counts))
	var sumSq float64
	for idx, count := range counts {
		// Sublinear TF dampens very frequent terms.
		w := (1.0 + math.Log(float64(count))) * v.idf[idx]
		vec = append(vec, Entry{Term: idx, Weight: w})
		sumSq += w * w
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].Term < vec[j].Term })
	norm := math.Sqrt(sumSq)
	for i := range vec {
		vec[i].Weight /= norm
	}
	return vec
}

// FitTransform fits the vectorizer and returns the document-term matrix, one
// row per input text in input order.
func (v *Vectorizer) FitTransform(docs []string) ([]Vector, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	rows := make([]Vector, len(docs))
	for i, doc := range docs {
		rows[i] = v.Transform(doc)
	}
	return rows, nil
}

// Restore rebuilds a fitted vectorizer from serialized state. terms and idf
// must be index-aligned; the model is meaningless otherwise.
func Restore(cfg Config, terms []string, idf []float64) (*Vectorizer, error) {
	if len(terms) != len(idf) {
		return nil, fmt.Errorf("terms/idf length mismatch: %d vs %d", len(terms), len(idf))
	}
	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}
	return &Vectorizer{cfg: cfg, terms: terms, vocab: vocab, idf: idf}, nil
}

// Config returns the pruning config the vectorizer was built with.
func (v *Vectorizer) Config() Config { return v.cfg }

// Terms returns the vocabulary ordered by term index.
func (v *Vectorizer) Terms() []string { return v.terms }

// IDF returns the IDF weights aligned with Terms.
func (v *Vectorizer) IDF() []float64 { return v.idf }

// VocabSize returns the number of vocabulary terms.
func (v *Vectorizer) VocabSize() int { return len(v.terms) }
