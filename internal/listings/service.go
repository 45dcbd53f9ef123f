package listings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corsa-lab/corsa-api/internal/cache"
	"github.com/corsa-lab/corsa-api/internal/catalog"
	"github.com/corsa-lab/corsa-api/internal/core/parse"
	"github.com/corsa-lab/corsa-api/internal/core/storage"
	"github.com/corsa-lab/corsa-api/internal/observability"
	"golang.org/x/sync/errgroup"
)

const (
	keyPriceHistory   = "price-history"
	keySummaryMetrics = "summary-metrics"
	keyModelPricing   = "model-has-pricing"

	maxConcurrentPricingChecks = 16
)

// ErrUnknownModel marks lookups of unregistered model keys.
// The text is shown to dashboard users as is.
var ErrUnknownModel = errors.New("Unknown model key") //nolint:staticcheck // user-facing message

// Options tunes query limits, windows and cache lifetimes.
type Options struct {
	HistoryLimit       int
	SampleLimit        int
	Window             time.Duration
	HistoryTTL         time.Duration
	SummaryTTL         time.Duration
	PricingTTL         time.Duration
	FilterTotalByModel bool
	// Location interprets zone-less date strings (default: UTC).
	Location *time.Location
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		HistoryLimit:       2000,
		SampleLimit:        10000,
		Window:             30 * 24 * time.Hour,
		HistoryTTL:         300 * time.Second,
		SummaryTTL:         120 * time.Second,
		PricingTTL:         900 * time.Second,
		FilterTotalByModel: true,
		Location:           time.UTC,
	}
}

// Service computes model listings, price histories and summary metrics.
// Every computation is memoized in the shared cache.
type Service struct {
	store    storage.ListingStore
	registry *catalog.Registry
	cache    cache.Store
	opts     Options
	nowFn    func() time.Time
}

// NewService creates a listings service.
func NewService(store storage.ListingStore, registry *catalog.Registry, results cache.Store, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		store:    store,
		registry: registry,
		cache:    results,
		opts:     opts,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// ListModels returns every registered model in registry order, each flagged
// with whether any listing matches it. Checks run concurrently; the first
// failure aborts the call.
func (s *Service) ListModels(ctx context.Context) ([]ModelMetadata, error) {
	defs := s.registry.All()
	out := make([]ModelMetadata, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPricingChecks)

	for i, def := range defs {
		g.Go(func() error {
			has, err := s.modelHasPricing(gctx, def)
			if err != nil {
				return fmt.Errorf("pricing check %s: %w", def.Key, err)
			}
			out[i] = ModelMetadata{ModelDefinition: def, HasPriceData: has}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) modelHasPricing(ctx context.Context, def catalog.ModelDefinition) (bool, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.Key(keyModelPricing, def.Key), s.opts.PricingTTL,
		func(ctx context.Context) (bool, error) {
			count, err := s.store.CountListings(ctx, def.Query())
			if err != nil {
				return false, err
			}
			return count > 0, nil
		})
}

// GetPriceHistory returns the deduplicated price series for a model. Unknown
// keys fail with ErrUnknownModel before the cache or data source is touched.
func (s *Service) GetPriceHistory(ctx context.Context, modelKey string) (*PriceHistoryResponse, error) {
	def, ok := s.registry.Lookup(modelKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, modelKey)
	}

	return cache.GetOrCompute(ctx, s.cache, cache.Key(keyPriceHistory, def.Key), s.opts.HistoryTTL,
		func(ctx context.Context) (*PriceHistoryResponse, error) {
			return s.computePriceHistory(ctx, def)
		})
}

func (s *Service) computePriceHistory(ctx context.Context, def catalog.ModelDefinition) (*PriceHistoryResponse, error) {
	q := def.Query().OrderByDate().WithLimit(s.opts.HistoryLimit)

	rows, err := s.store.SelectListings(ctx, q)
	if err != nil {
		return nil, err
	}

	points := extractPricePoints(rows, s.opts.Location)
	observability.PricePointsServed.Observe(float64(len(points)))

	slog.Debug("[Listings] Computed price history",
		"model", def.Key,
		"rows", len(rows),
		"points", len(points))

	return &PriceHistoryResponse{
		Model:  def,
		Stats:  computeStats(points),
		Points: points,
	}, nil
}

// GetSummaryMetrics returns market figures for the whole table, or for one
// model when modelKey is non-empty. The distinct-VIN count is always
// table-wide.
func (s *Service) GetSummaryMetrics(ctx context.Context, modelKey string) (*SummaryMetrics, error) {
	var def *catalog.ModelDefinition
	if modelKey != "" {
		d, ok := s.registry.Lookup(modelKey)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModel, modelKey)
		}
		def = &d
	}

	return cache.GetOrCompute(ctx, s.cache, cache.Key(keySummaryMetrics, modelKey), s.opts.SummaryTTL,
		func(ctx context.Context) (*SummaryMetrics, error) {
			return s.computeSummaryMetrics(ctx, def)
		})
}

func (s *Service) computeSummaryMetrics(ctx context.Context, def *catalog.ModelDefinition) (*SummaryMetrics, error) {
	now := s.nowFn()
	currentStart := now.Add(-s.opts.Window)
	previousStart := now.Add(-2 * s.opts.Window)

	base := storage.NewQuery()
	if def != nil {
		base = def.Query()
	}
	totalQuery := storage.NewQuery()
	if s.opts.FilterTotalByModel {
		totalQuery = base
	}

	var (
		total           int64
		uniqueVins      *int64
		currentSamples  []storage.PriceSample
		previousSamples []storage.PriceSample
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.CountListings(gctx, totalQuery)
		if err != nil {
			return err
		}
		total = n
		return nil
	})
	g.Go(func() error {
		n, err := s.store.CountDistinct(gctx, storage.ColumnVIN)
		if err != nil {
			return err
		}
		uniqueVins = n
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.SelectPriceSamples(gctx, base.
			Between(storage.DateRange{From: currentStart, To: now, ToInclusive: true}).
			WithLimit(s.opts.SampleLimit))
		if err != nil {
			return err
		}
		currentSamples = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.SelectPriceSamples(gctx, base.
			Between(storage.DateRange{From: previousStart, To: currentStart}).
			WithLimit(s.opts.SampleLimit))
		if err != nil {
			return err
		}
		previousSamples = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics := &SummaryMetrics{
		TotalListings: &total,
		UniqueVins:    uniqueVins,
		UpdatedAt:     parse.FormatISO(now),
	}

	if current, ok := parse.Average(samplePrices(currentSamples)); ok {
		metrics.AverageAskingPrice = &current
		metrics.PriceTrend.Current = &current
	}
	if previous, ok := parse.Average(samplePrices(previousSamples)); ok {
		metrics.PriceTrend.Previous = &previous
	}
	if metrics.PriceTrend.Current != nil && metrics.PriceTrend.Previous != nil {
		delta := parse.Difference(*metrics.PriceTrend.Current, *metrics.PriceTrend.Previous)
		metrics.PriceTrend.Delta = &delta
	}

	slog.Debug("[Listings] Computed summary metrics",
		"model_filtered", def != nil,
		"total", total,
		"current_samples", len(currentSamples),
		"previous_samples", len(previousSamples))

	return metrics, nil
}
