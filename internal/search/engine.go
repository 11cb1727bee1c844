// Package search ranks corpus chunks against a query by cosine similarity in
// the fitted vector space, after restricting candidates by metadata filters.
package search

import (
	"context"
	"sort"
	"time"

	"github.com/lexfin/filingsearch/internal/index"
	"github.com/lexfin/filingsearch/internal/models"
	"github.com/lexfin/filingsearch/internal/tfidf"
)

// Engine answers queries against a loaded index artifact. The artifact is
// immutable after load, so an Engine is safe for concurrent use.
type Engine struct {
	artifact *index.Artifact
	tickers  []string
}

// NewEngine creates an engine over the given artifact. tickers is the closed
// set of ticker filter values accepted at the boundary.
func NewEngine(artifact *index.Artifact, tickers []string) *Engine {
	return &Engine{artifact: artifact, tickers: tickers}
}

// Artifact returns the engine's artifact.
func (e *Engine) Artifact() *index.Artifact { return e.artifact }

// Search validates the query, applies the metadata filters as a row mask,
// projects the query through the fitted model, and returns the top-K
// candidates by descending similarity. Exact score ties keep corpus row
// order. A filter mask that selects zero rows yields an empty response with
// NoFilterMatch set; it is not an error.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	start := time.Now()
	if err := query.Validate(e.tickers); err != nil {
		return nil, err
	}

	candidates := e.filterRows(query)
	if len(candidates) == 0 {
		return &models.SearchResponse{
			Results:       []*models.SearchResult{},
			NoFilterMatch: true,
			QueryTimeMS:   time.Since(start).Milliseconds(),
		}, nil
	}

	queryVec := e.artifact.Model.Transform(query.Query)

	type scored struct {
		row   int
		score float64
	}
	scores := make([]scored, len(candidates))
	for i, row := range candidates {
		scores[i] = scored{row: row, score: tfidf.Dot(queryVec, e.artifact.Matrix[row])}
	}
	// Stable: equal scores keep ascending row order, so the first occurrence
	// wins on exact ties.
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	k := query.TopK
	if k > len(scores) {
		k = len(scores)
	}
	results := make([]*models.SearchResult, k)
	for i := 0; i < k; i++ {
		results[i] = &models.SearchResult{
			Chunk: &e.artifact.Meta[scores[i].row],
			Score: scores[i].score,
			Rank:  i + 1,
		}
	}
	return &models.SearchResponse{
		Results:     results,
		Total:       len(results),
		QueryTimeMS: time.Since(start).Milliseconds(),
	}, nil
}

// filterRows returns the corpus row indices passing the query's filters, in
// row order. Each filter is an exact match and optional; absence means no
// constraint.
func (e *Engine) filterRows(query *models.SearchQuery) []int {
	rows := make([]int, 0, len(e.artifact.Meta))
	for i := range e.artifact.Meta {
		c := &e.artifact.Meta[i]
		if query.Ticker != "" && c.Ticker != query.Ticker {
			continue
		}
		if query.DocType != "" && c.DocType != query.DocType {
			continue
		}
		rows = append(rows, i)
	}
	return rows
}
