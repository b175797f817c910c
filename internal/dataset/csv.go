package dataset

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readCSV decodes a CSV source into raw rows. A leading UTF-8 or UTF-16 BOM
// is honoured; extra columns are ignored.
func (l *Loader) readCSV(path string) ([]rawRow, error) {
	rc, err := l.open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open csv")
	}
	defer rc.Close() //nolint:errcheck

	return decodeCSV(transform.NewReader(rc, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
}

func decodeCSV(r io.Reader) ([]rawRow, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptySource
	}
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv header")
	}
	header = normalizeHeader(header)
	if err := checkColumns(header); err != nil {
		return nil, err
	}

	dec, err := csvutil.NewDecoder(reader, header...)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: init csv decoder")
	}

	var rows []rawRow
	for {
		var row rawRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "dataset: decode csv row %d", len(rows)+1)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
