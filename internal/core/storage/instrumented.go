package storage

import (
	"context"
	"time"

	"github.com/corsa-lab/corsa-api/internal/observability"
)

// instrumented records latency and failures of every store call.
type instrumented struct {
	next    ListingStore
	backend string
}

// WithMetrics wraps store so each operation is observed under backend.
func WithMetrics(store ListingStore, backend string) ListingStore {
	return &instrumented{next: store, backend: backend}
}

func (s *instrumented) observe(op string, start time.Time, err error) {
	observability.DataSourceQueryDuration.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.DataSourceErrorsTotal.WithLabelValues(s.backend, op).Inc()
	}
}

func (s *instrumented) SelectListings(ctx context.Context, q Query) ([]Listing, error) {
	start := time.Now()
	listings, err := s.next.SelectListings(ctx, q)
	s.observe("select_listings", start, err)
	return listings, err
}

func (s *instrumented) SelectPriceSamples(ctx context.Context, q Query) ([]PriceSample, error) {
	start := time.Now()
	samples, err := s.next.SelectPriceSamples(ctx, q)
	s.observe("select_price_samples", start, err)
	return samples, err
}

func (s *instrumented) CountListings(ctx context.Context, q Query) (int64, error) {
	start := time.Now()
	count, err := s.next.CountListings(ctx, q)
	s.observe("count_listings", start, err)
	return count, err
}

func (s *instrumented) CountDistinct(ctx context.Context, column Column) (*int64, error) {
	start := time.Now()
	count, err := s.next.CountDistinct(ctx, column)
	s.observe("count_distinct", start, err)
	return count, err
}

func (s *instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe("ping", start, err)
	return err
}
