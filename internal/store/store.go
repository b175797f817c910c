// Package store persists priority records so a dataset can be served from a
// database instead of a flat file.
package store

import (
	"context"

	"github.com/sells-group/ev-priority/internal/model"
)

// Store defines the persistence interface for priority records.
type Store interface {
	// ReplaceRecords atomically swaps the stored records for records and
	// returns how many were written.
	ReplaceRecords(ctx context.Context, records []model.Record) (int, error)
	// ListRecords returns stored records in insertion order.
	ListRecords(ctx context.Context) ([]model.Record, error)
	CountRecords(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
