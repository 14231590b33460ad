package storage

import (
	"context"
	"errors"

	"shoe-report/models"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the input.
	ErrMissingColumn = errors.New("required column missing")
	// ErrEmptyInput is returned when the input has no header row.
	ErrEmptyInput = errors.New("input is empty")
)

// TableSource loads the listing table for one report render.
type TableSource interface {
	Load(ctx context.Context) (*models.Table, error)
	Close() error
}

// ListingWriter is the interface any storage backend must satisfy.
type ListingWriter interface {
	Write(ctx context.Context, listings []*models.Listing) error
	Close() error
}
