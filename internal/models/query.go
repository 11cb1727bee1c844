package models

import "fmt"

// DefaultTopK is the number of results returned when a query does not set TopK.
const DefaultTopK = 5

// SearchQuery represents a search request with optional metadata filters.
// Ticker and DocType are exact-match filters; empty means no constraint.
type SearchQuery struct {
	Query   string `json:"query"`
	Ticker  string `json:"ticker,omitempty"`
	DocType string `json:"doc_type,omitempty"`
	TopK    int    `json:"top_k,omitempty"`
}

// Validate checks the query against the closed filter enumerations and sets
// defaults. tickers is the allowed ticker set; filters with unknown values are
// rejected here so the engine can assume they are already validated.
func (q *SearchQuery) Validate(tickers []string) error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.Ticker != "" && !containsString(tickers, q.Ticker) {
		return fmt.Errorf("unknown ticker %q (allowed: %v)", q.Ticker, tickers)
	}
	if q.DocType != "" && !ValidDocType(q.DocType) {
		return fmt.Errorf("unknown doc_type %q (allowed: %s, %s)", q.DocType, DocTypeTenK, DocTypeEarningsCall)
	}
	if q.TopK <= 0 {
		q.TopK = DefaultTopK
	}
	return nil
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
