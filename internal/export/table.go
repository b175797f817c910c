// Package export renders ranked tables and map markers for output.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/ev-priority/internal/model"
)

// Format is an output format for tabular results.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a tabular output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	}
	return "", eris.Errorf("export: unknown format %q (want table, csv, json or yaml)", s)
}

// WriteTable writes ranked rows in the given format. Scores are rounded to
// three decimals in table and csv output; json and yaml carry full precision.
func WriteTable(w io.Writer, rows []model.AggregateRow, format Format) error {
	switch format {
	case FormatTable, "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tBOROUGH\tAVG_PRIORITY_SCORE\tSTATION_COUNT\tSUGGESTED_ACTION")
		for i, r := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%.3f\t%d\t%s\n", i+1, r.Borough, r.AvgPriorityScore, r.StationCount, r.SuggestedAction)
		}
		return eris.Wrap(tw.Flush(), "export: flush table")
	case FormatCSV:
		cw := csv.NewWriter(w)
		records := [][]string{{"borough", "avg_priority_score", "station_count", "suggested_action"}}
		for _, r := range rows {
			records = append(records, []string{
				r.Borough,
				strconv.FormatFloat(r.Rounded(), 'f', 3, 64),
				strconv.Itoa(r.StationCount),
				r.SuggestedAction,
			})
		}
		return eris.Wrap(cw.WriteAll(records), "export: write csv")
	case FormatJSON:
		return writeJSON(w, nonNil(rows))
	case FormatYAML:
		return writeYAML(w, nonNil(rows))
	}
	return eris.Errorf("export: unsupported table format %q", format)
}

// WriteMarkers writes the spatial summary in a tabular format.
func WriteMarkers(w io.Writer, markers []model.Marker, format Format) error {
	switch format {
	case FormatTable, "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "BOROUGH\tLABEL\tLATITUDE\tLONGITUDE\tPRIORITY_SCORE\tSTATIONS")
		for _, m := range markers {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.3f\t%d\n",
				m.Borough, m.Label, coord(m.Latitude), coord(m.Longitude), m.PriorityScore, m.StationCount)
		}
		return eris.Wrap(tw.Flush(), "export: flush markers")
	case FormatCSV:
		cw := csv.NewWriter(w)
		records := [][]string{{"borough", "priority_label", "latitude", "longitude", "priority_score", "station_count"}}
		for _, m := range markers {
			records = append(records, []string{
				m.Borough,
				string(m.Label),
				coord(m.Latitude),
				coord(m.Longitude),
				strconv.FormatFloat(m.PriorityScore, 'f', -1, 64),
				strconv.Itoa(m.StationCount),
			})
		}
		return eris.Wrap(cw.WriteAll(records), "export: write markers csv")
	case FormatJSON:
		return writeJSON(w, nonNil(markers))
	case FormatYAML:
		return writeYAML(w, nonNil(markers))
	}
	return eris.Errorf("export: unsupported markers format %q", format)
}

// Encode writes any value as indented JSON or YAML.
func Encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, v)
	case FormatYAML:
		return writeYAML(w, v)
	}
	return eris.Errorf("export: cannot encode as %q", format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "export: encode json")
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "export: encode yaml")
	}
	return eris.Wrap(enc.Close(), "export: close yaml encoder")
}

func coord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
