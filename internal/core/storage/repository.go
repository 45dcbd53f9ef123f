package storage

import (
	"context"
	"fmt"
)

// ListingStore is the read-only data source the aggregators query.
// Every method takes a Query built from an immutable list of filter clauses.
type ListingStore interface {
	// SelectListings returns full listing rows matching q, honoring its
	// ordering and limit.
	SelectListings(ctx context.Context, q Query) ([]Listing, error)

	// SelectPriceSamples returns the (price, date) projection of rows matching q.
	// Used for windowed trend averages.
	SelectPriceSamples(ctx context.Context, q Query) ([]PriceSample, error)

	// CountListings returns the exact number of rows matching q without
	// fetching them. Ordering and limit are ignored.
	CountListings(ctx context.Context, q Query) (int64, error)

	// CountDistinct returns the number of distinct non-null values of column
	// across the whole table. Returns nil (and no error) when the source
	// cannot answer.
	CountDistinct(ctx context.Context, column Column) (*int64, error)

	// Ping verifies the data source is reachable.
	Ping(ctx context.Context) error
}

// DataSourceError wraps a failed data-source operation. The underlying error
// is preserved for errors.Is / errors.As.
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// Fail wraps err as a DataSourceError for op. nil stays nil.
func Fail(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataSourceError{Op: op, Err: err}
}
