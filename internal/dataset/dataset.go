// Package dataset loads the station priority dataset from CSV, XLSX or SQLite
// sources and memoizes the result per source.
package dataset

import (
	"time"

	"github.com/sells-group/ev-priority/internal/model"
)

// Dataset is an immutable, validated set of records loaded from one source.
type Dataset struct {
	source   string
	format   Format
	records  []model.Record
	outcomes []model.RowOutcome
	loadedAt time.Time
}

// New builds a Dataset from already validated records. Used by callers that
// assemble records in memory.
func New(source string, records []model.Record) *Dataset {
	ds := &Dataset{source: source, loadedAt: time.Now().UTC()}
	for i, r := range records {
		r := cloneRecord(r)
		ds.records = append(ds.records, r)
		ds.outcomes = append(ds.outcomes, model.RowOutcome{Line: i + 1, Record: &r, Kept: true})
	}
	return ds
}

// Source returns the path the dataset was loaded from.
func (d *Dataset) Source() string { return d.source }

// Format returns the source format.
func (d *Dataset) Format() Format { return d.format }

// LoadedAt returns when the source was parsed.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// Len returns the number of kept records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of the kept records in source order.
func (d *Dataset) Records() []model.Record {
	out := make([]model.Record, len(d.records))
	for i, r := range d.records {
		out[i] = cloneRecord(r)
	}
	return out
}

// Outcomes returns the per-row load outcomes in source order.
func (d *Dataset) Outcomes() []model.RowOutcome {
	out := make([]model.RowOutcome, len(d.outcomes))
	copy(out, d.outcomes)
	return out
}

// Dropped returns how many source rows were excluded.
func (d *Dataset) Dropped() int {
	return len(d.outcomes) - len(d.records)
}

func cloneRecord(r model.Record) model.Record {
	if r.Latitude != nil {
		r.Latitude = model.Float(*r.Latitude)
	}
	if r.Longitude != nil {
		r.Longitude = model.Float(*r.Longitude)
	}
	return r
}
