package dataset

import "github.com/rotisserie/eris"

var (
	// ErrMissingColumn is returned when a source lacks a required column.
	ErrMissingColumn = eris.New("dataset: missing required column")
	// ErrUnknownFormat is returned when the source format cannot be determined.
	ErrUnknownFormat = eris.New("dataset: unknown source format")
	// ErrEmptySource is returned when a source has no header row.
	ErrEmptySource = eris.New("dataset: source has no header row")
)

func missingColumnError(col string) error {
	return eris.Wrapf(ErrMissingColumn, "column %q", col)
}
