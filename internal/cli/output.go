// Package cli renders search results for terminal consumption.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lexfin/filingsearch/internal/models"
	"github.com/lexfin/filingsearch/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	if response.NoFilterMatch {
		fmt.Fprintln(w, "No documents match filters.")
		return
	}
	fmt.Fprintf(w, "\nFound %d results in %dms\n", response.Total, response.QueryTimeMS)
	for _, result := range response.Results {
		c := result.Chunk
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "[%d] score=%.3f | %s | %s | %s %s\n",
			result.Rank, result.Score, c.Ticker, c.DocType, c.PeriodLabel, c.Quarter)
		fmt.Fprintf(w, "src=%s  para=%d  chunk=%d\n", c.SourceFile, c.ParaID, c.ChunkID)
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(c.Text, 400))
	}
}
