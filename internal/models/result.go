package models

// SearchResult is a single ranked hit: the chunk plus its cosine similarity.
type SearchResult struct {
	Chunk *Chunk  `json:"chunk"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// SearchResponse is the response for a search request. When the metadata
// filters match no corpus rows, NoFilterMatch is true and Results is empty;
// this is an expected outcome, not an error.
type SearchResponse struct {
	Results       []*SearchResult `json:"results"`
	Total         int             `json:"total"`
	NoFilterMatch bool            `json:"no_filter_match,omitempty"`
	QueryTimeMS   int64           `json:"query_time_ms"`
}
