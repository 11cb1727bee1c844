// Package manifest reads and writes the provenance table mapping documents to
// their metadata and processed-file locations.
package manifest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lexfin/filingsearch/internal/models"
)

// requiredColumns must all be present for the corpus builder to run.
var requiredColumns = []string{
	"ticker", "source", "period_label", "quarter", "section",
	"filename", "processed_path",
}

var reQuarter = regexp.MustCompile(`^Q[1-4]$`)

// supported raw file extensions for filename parsing.
var supportedExts = map[string]bool{".txt": true, ".pdf": true, ".docx": true}

// ParseFilename extracts document metadata from a raw filename of the form
// TICKER_DOCTYPE_PERIOD[_Qn][_Section...].ext, e.g.
// MSFT_10K_FY2025_RiskFactors.txt or NVDA_EarningsCall_CY2025_Q2.txt.
// Underscore parts that match no known field are joined into the section label.
func ParseFilename(fname string) (models.ManifestRecord, error) {
	ext := strings.ToLower(filepath.Ext(fname))
	if !supportedExts[ext] {
		return models.ManifestRecord{}, fmt.Errorf("unexpected file extension: %s", fname)
	}
	name := fname[:len(fname)-len(ext)]
	parts := strings.Split(name, "_")

	rec := models.ManifestRecord{Filename: fname}
	if len(parts) > 0 {
		rec.Ticker = parts[0]
	}
	var leftovers []string
	for _, p := range parts[1:] {
		switch {
		case p == string(models.DocTypeTenK) || p == string(models.DocTypeEarningsCall):
			rec.Source = p
		case strings.HasPrefix(p, "FY") || strings.HasPrefix(p, "CY"):
			rec.PeriodLabel = p
		case reQuarter.MatchString(p):
			rec.Quarter = p
		default:
			leftovers = append(leftovers, p)
		}
	}
	rec.Section = strings.Join(leftovers, "_")
	if rec.Source == "" || rec.PeriodLabel == "" {
		return models.ManifestRecord{}, fmt.Errorf("filename %s does not encode a document type and period", fname)
	}
	return rec, nil
}

// Read loads the manifest CSV at path and validates that all required columns
// are present. A missing file or missing columns are fatal configuration
// errors; the error for missing columns names them.
func Read(path string) ([]models.ManifestRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("manifest %s has no header row", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("manifest is missing columns: %s", strings.Join(missing, ", "))
	}

	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]models.ManifestRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := models.ManifestRecord{
			Ticker:        get(row, "ticker"),
			Source:        get(row, "source"),
			PeriodLabel:   get(row, "period_label"),
			Quarter:       get(row, "quarter"),
			Section:       get(row, "section"),
			Filename:      get(row, "filename"),
			ProcessedPath: get(row, "processed_path"),
			IngestedAt:    get(row, "ingested_at"),
			Error:         get(row, "error"),
		}
		if chars := get(row, "chars"); chars != "" {
			rec.Chars, _ = strconv.Atoi(chars)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Write persists records as a CSV manifest at path, creating the parent
// directory if needed. The error column is emitted only when at least one
// record carries an error.
func Write(path string, records []models.ManifestRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer f.Close()

	hasError := false
	for _, rec := range records {
		if rec.Error != "" {
			hasError = true
			break
		}
	}
	fields := []string{
		"ticker", "source", "period_label", "quarter", "section",
		"filename", "chars", "processed_path", "ingested_at",
	}
	if hasError {
		fields = append(fields, "error")
	}

	w := csv.NewWriter(f)
	if err := w.Write(fields); err != nil {
		return fmt.Errorf("write manifest header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Ticker, rec.Source, rec.PeriodLabel, rec.Quarter, rec.Section,
			rec.Filename, strconv.Itoa(rec.Chars), rec.ProcessedPath, rec.IngestedAt,
		}
		if hasError {
			row = append(row, rec.Error)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write manifest row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
