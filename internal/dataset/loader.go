package dataset

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ev-priority/internal/model"
)

// Format identifies a source file type.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// ParseFormat validates a configured format name. An empty name is allowed
// and means "detect from the file extension".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV, FormatXLSX, FormatSQLite:
		return f, nil
	}
	return "", eris.Wrapf(ErrUnknownFormat, "format %q", s)
}

// DetectFormat returns override when set, otherwise infers the format from
// the path extension.
func DetectFormat(path string, override Format) (Format, error) {
	if override != "" {
		return override, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", eris.Wrapf(ErrUnknownFormat, "cannot infer format of %q", path)
}

// OpenFunc opens a source for reading.
type OpenFunc func(path string) (io.ReadCloser, error)

// RecordReader reads already validated records from a database source.
type RecordReader func(ctx context.Context, path string) ([]model.Record, error)

// Options configures a Loader.
type Options struct {
	Format Format // empty = detect from extension
	Sheet  string // XLSX sheet name; empty = first sheet
	Open   OpenFunc
	// ReadDB reads records from a SQLite source. Required for FormatSQLite.
	ReadDB RecordReader
}

// Loader parses a source into a Dataset.
type Loader struct {
	format Format
	sheet  string
	open   OpenFunc
	readDB RecordReader
}

// NewLoader creates a Loader. A nil Open defaults to os.Open.
func NewLoader(opts Options) *Loader {
	open := opts.Open
	if open == nil {
		open = func(path string) (io.ReadCloser, error) { return os.Open(path) }
	}
	return &Loader{
		format: opts.Format,
		sheet:  opts.Sheet,
		open:   open,
		readDB: opts.ReadDB,
	}
}

// Load reads and validates the source at path. A missing or unreadable
// source is an error; rows that fail validation are dropped and reported
// through Dataset.Outcomes.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	log := zap.L().With(zap.String("component", "dataset.loader"), zap.String("path", path))

	format, err := DetectFormat(path, l.format)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{source: path, format: format, loadedAt: time.Now().UTC()}

	switch format {
	case FormatCSV, FormatXLSX:
		var rows []rawRow
		if format == FormatCSV {
			rows, err = l.readCSV(path)
		} else {
			rows, err = l.readXLSX(path)
		}
		if err != nil {
			return nil, err
		}
		for i, row := range rows {
			ds.add(coerce(i+1, row))
		}
	case FormatSQLite:
		if l.readDB == nil {
			return nil, eris.New("dataset: no database reader configured for sqlite source")
		}
		if _, err := os.Stat(path); err != nil {
			return nil, eris.Wrap(err, "dataset: stat sqlite source")
		}
		records, err := l.readDB(ctx, path)
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read sqlite source")
		}
		for i, r := range records {
			r.Borough = normalizeName(r.Borough)
			if r.Borough == "" {
				ds.add(model.RowOutcome{Line: i + 1, Reason: model.DropMissingBorough})
				continue
			}
			ds.add(model.RowOutcome{Line: i + 1, Record: &r, Kept: true})
		}
	default:
		return nil, eris.Wrapf(ErrUnknownFormat, "format %q", format)
	}

	log.Info("dataset loaded",
		zap.String("format", string(format)),
		zap.Int("rows", len(ds.outcomes)),
		zap.Int("kept", ds.Len()),
		zap.Int("dropped", ds.Dropped()),
	)
	if ds.Dropped() > 0 {
		log.Debug("dataset rows dropped", zap.Any("reasons", dropReasons(ds.outcomes)))
	}
	return ds, nil
}

func (d *Dataset) add(o model.RowOutcome) {
	d.outcomes = append(d.outcomes, o)
	if o.Kept {
		d.records = append(d.records, *o.Record)
	}
}

func dropReasons(outcomes []model.RowOutcome) map[model.DropReason]int {
	counts := make(map[model.DropReason]int)
	for _, o := range outcomes {
		if !o.Kept {
			counts[o.Reason]++
		}
	}
	return counts
}
