package dataset

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/ev-priority/internal/model"
)

// Required source columns.
const (
	ColBorough       = "borough"
	ColLatitude      = "latitude"
	ColLongitude     = "longitude"
	ColPriorityScore = "priority_score"
)

// RequiredColumns lists the columns every source must provide.
var RequiredColumns = []string{ColBorough, ColLatitude, ColLongitude, ColPriorityScore}

// naValues are cell values treated as missing, matching common spreadsheet
// and dataframe exports.
var naValues = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// rawRow is one source row before coercion.
type rawRow struct {
	Borough       string `csv:"borough"`
	Latitude      string `csv:"latitude"`
	Longitude     string `csv:"longitude"`
	PriorityScore string `csv:"priority_score"`
}

// parseNumber coerces a cell to a finite decimal float. Anything else,
// including hex floats and digit separators, is missing.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if naValues[s] || strings.ContainsAny(s, "xX_") {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// normalizeName trims and NFC-normalizes an entity name. Missing values
// normalize to "".
func normalizeName(s string) string {
	s = strings.TrimSpace(s)
	if naValues[s] {
		return ""
	}
	return norm.NFC.String(s)
}

// coerce validates one raw row. line is the 1-based data row number.
func coerce(line int, row rawRow) model.RowOutcome {
	borough := normalizeName(row.Borough)
	if borough == "" {
		return model.RowOutcome{Line: line, Reason: model.DropMissingBorough}
	}
	score := parseNumber(row.PriorityScore)
	if score == nil {
		return model.RowOutcome{Line: line, Reason: model.DropMissingScore}
	}
	rec := &model.Record{
		Borough:       borough,
		Latitude:      parseNumber(row.Latitude),
		Longitude:     parseNumber(row.Longitude),
		PriorityScore: *score,
	}
	return model.RowOutcome{Line: line, Record: rec, Kept: true}
}

// normalizeHeader trims, lowercases and strips a leading BOM from header
// cells so column lookup is tolerant of spreadsheet exports.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		out[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return out
}

// checkColumns returns an error naming the first missing required column.
func checkColumns(header []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	for _, col := range RequiredColumns {
		if !have[col] {
			return missingColumnError(col)
		}
	}
	return nil
}
