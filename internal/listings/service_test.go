package listings

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/corsa-lab/corsa-api/internal/cache"
	"github.com/corsa-lab/corsa-api/internal/catalog"
	"github.com/corsa-lab/corsa-api/internal/core/storage"
	storagemocks "github.com/corsa-lab/corsa-api/internal/mocks/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newTestRegistry(t *testing.T) *catalog.Registry {
	t.Helper()

	reg, err := catalog.NewRegistry([]catalog.ModelDefinition{
		catalog.Define("McLaren", "650S", "650%"),
		catalog.Define("Ferrari", "Roma", ""),
		catalog.Define("Ford", "GT", ""),
	})
	require.NoError(t, err)
	return reg
}

func newTestService(t *testing.T, store storage.ListingStore) *Service {
	t.Helper()

	results := cache.New(cache.Options{Now: func() time.Time { return testNow }})
	svc := NewService(store, newTestRegistry(t), results, DefaultOptions())
	svc.nowFn = func() time.Time { return testNow }
	return svc
}

func matchesModel(manufacturer, pattern string) interface{} {
	return mock.MatchedBy(func(q storage.Query) bool {
		f := q.Filters()
		return len(f) == 2 &&
			f[0] == storage.Equals(storage.ColumnMake, manufacturer) &&
			f[1] == storage.ILike(storage.ColumnModel, pattern)
	})
}

func TestService_GetPriceHistory_UnknownModelSkipsDataSource(t *testing.T) {
	store := storagemocks.NewListingStore(t)
	svc := newTestService(t, store)

	_, err := svc.GetPriceHistory(context.Background(), "unknown-key")
	require.ErrorIs(t, err, ErrUnknownModel)
	require.ErrorContains(t, err, "unknown-key")
}

func TestService_GetPriceHistory(t *testing.T) {
	store := storagemocks.NewListingStore(t)
	svc := newTestService(t, store)

	store.EXPECT().
		SelectListings(mock.Anything, mock.MatchedBy(func(q storage.Query) bool {
			return q.OrdersByDate() && q.Limit() == 2000 && len(q.Filters()) == 2
		})).
		Return([]storage.Listing{
			{
				ID:           storage.NewText("a"),
				VIN:          storage.NewText("SBM1"),
				Price:        "$180,000",
				Date:         "2026-02-01",
				PriceHistory: `[{"date":"2025-12-01","price":"$195,000"},{"date":"2026-01-01","price":"$189,000"}]`,
			},
			{
				ID:    storage.NewText("b"),
				VIN:   storage.NewText("SBM2"),
				Price: 210000.0,
				Date:  "2026-01-15",
			},
		}, nil).
		Once()

	resp, err := svc.GetPriceHistory(context.Background(), "mclaren-650s")
	require.NoError(t, err)

	require.Equal(t, "mclaren-650s", resp.Model.Key)
	require.Len(t, resp.Points, 4)
	require.Equal(t, 4, resp.Stats.TotalPoints)
	require.Equal(t, 180000.0, *resp.Stats.MinPrice)
	require.Equal(t, 210000.0, *resp.Stats.MaxPrice)
	require.Equal(t, 192000.0, *resp.Stats.MedianPrice)
	require.Equal(t, 180000.0, *resp.Stats.LatestPrice)
	require.Equal(t, "2026-02-01T00:00:00.000Z", *resp.Stats.LastUpdated)

	again, err := svc.GetPriceHistory(context.Background(), "mclaren-650s")
	require.NoError(t, err)
	require.Same(t, resp, again)
}

func TestService_GetPriceHistory_EmptyModel(t *testing.T) {
	store := storagemocks.NewListingStore(t)
	svc := newTestService(t, store)

	store.EXPECT().SelectListings(mock.Anything, matchesModel("Ford", "GT%")).Return([]storage.Listing{}, nil).Once()

	resp, err := svc.GetPriceHistory(context.Background(), "ford-gt")
	require.NoError(t, err)
	require.Equal(t, PriceStats{TotalPoints: 0}, resp.Stats)
	require.NotNil(t, resp.Points)
	require.Empty(t, resp.Points)
}

func TestService_GetPriceHistory_PropagatesDataSourceError(t *testing.T) {
	store := storagemocks.NewListingStore(t)
	svc := newTestService(t, store)

	dsErr := storage.Fail("select listings", errors.New("timeout"))
	store.EXPECT().SelectListings(mock.Anything, mock.Anything).Return(nil, dsErr).Twice()

	_, err := svc.GetPriceHistory(context.Background(), "ferrari-roma")
	require.ErrorIs(t, err, dsErr)

	_, err = svc.GetPriceHistory(context.Background(), "ferrari-roma")
	require.ErrorIs(t, err, dsErr, "failures are not cached")
}

func TestService_GetSummaryMetrics(t *testing.T) {
	store := storagemocks.NewListingStore(t)
	svc := newTestService(t, store)

	currentStart := testNow.Add(-30 * 24 * time.Hour)
	previousStart := testNow.Add(-60 * 24 * time.Hour)
	vins := int64(88)

	store.EXPECT().
		CountListings(mock.Anything, mock.MatchedBy(func(q storage.Query) bool { return len(q.Filters()) == 0 })).
		Return(int64(1200), nil).
		Once()
	store.EXPECT().CountDistinct(mock.Anything, storage.ColumnVIN).Return(&vins, nil).Once()
	store.EXPECT().
		SelectPriceSamples(mock.Anything, mock.MatchedBy(func(q storage.Query) bool {
			r, ok := q.DateRange()
			return ok && r.From.Equal(currentStart) && r.To.Equal(testNow) && r.ToInclusive && q.Limit() == 10000
		})).
		Return([]storage.PriceSample{{Price: "$100,000"}, {Price: 200000.0}, {Price: "POA"}}, nil).
		Once()
	store.EXPECT().
		SelectPriceSamples(mock.Anything, mock.MatchedBy(func(q storage.Query) bool {
			r, ok := q.DateRange()
			return ok && r.From.Equal(previousStart) && r.To.Equal(currentStart) && !r.ToInclusive
		})).
		Return([]storage.PriceSample{{Price: "120000"}}, nil).
		Once()

	metrics, err := svc.GetSummaryMetrics(context.Background(), "")
	require.NoError(t, err)

	require.Equal(t, int64(1200), *metrics.TotalListings)
	require.Equal(t, int64(88), *metrics.UniqueVins)
	require.Equal(t, 150000.0, *metrics.AverageAskingPrice)
	require.Equal(t, 150000.0, *metrics.PriceTrend.Current)
	require.Equal(t, 120000.0, *metrics.PriceTrend.Previous)
	require.Equal(t, 30000.0, *metrics.PriceTrend.Delta)
	require.Equal(t, "2026-10-16T12:00:00.000Z", metrics.UpdatedAt)

	again, err := svc.GetSummaryMetrics(context.Background(), "")
	require.NoError(t, err)
	require.Same(t, metrics, again)
}

func TestService_GetSummaryMetrics_ModelFiltered(t *testing.T) {
	store := storagemocks.NewListingStore(t)
	svc := newTestService(t, store)

	store.EXPECT().CountListings(mock.Anything, matchesModel("Ferrari", "Roma%")).Return(int64(3), nil).Once()
	store.EXPECT().CountDistinct(mock.Anything, storage.ColumnVIN).Return(nil, nil).Once()
	store.EXPECT().SelectPriceSamples(mock.Anything, matchesModel("Ferrari", "Roma%")).
		Return([]storage.PriceSample{}, nil).
		Twice()

	metrics, err := svc.GetSummaryMetrics(context.Background(), "ferrari-roma")
	require.NoError(t, err)

	require.Equal(t, int64(3), *metrics.TotalListings)
	require.Nil(t, metrics.UniqueVins)
	require.Nil(t, metrics.AverageAskingPrice)
	require.Nil(t, metrics.PriceTrend.Current)
	require.Nil(t, metrics.PriceTrend.Previous)
	require.Nil(t, metrics.PriceTrend.Delta)
}

func TestService_GetSummaryMetrics_UnfilteredTotalOption(t *testing.T) {
	store := storagemocks.NewListingStore(t)
	svc := newTestService(t, store)
	svc.opts.FilterTotalByModel = false

	store.EXPECT().
		CountListings(mock.Anything, mock.MatchedBy(func(q storage.Query) bool { return len(q.Filters()) == 0 })).
		Return(int64(500), nil).
		Once()
	store.EXPECT().CountDistinct(mock.Anything, storage.ColumnVIN).Return(nil, nil).Once()
	store.EXPECT().SelectPriceSamples(mock.Anything, matchesModel("Ford", "GT%")).
		Return([]storage.PriceSample{{Price: 1.0}}, nil).
		Twice()

	metrics, err := svc.GetSummaryMetrics(context.Background(), "ford-gt")
	require.NoError(t, err)
	require.Equal(t, int64(500), *metrics.TotalListings)
	require.Equal(t, 0.0, *metrics.PriceTrend.Delta)
}

func TestService_GetSummaryMetrics_UnknownModel(t *testing.T) {
	store := storagemocks.NewListingStore(t)
	svc := newTestService(t, store)

	_, err := svc.GetSummaryMetrics(context.Background(), "nope")
	require.ErrorIs(t, err, ErrUnknownModel)
}

func TestService_GetSummaryMetrics_AbortsOnQueryFailure(t *testing.T) {
	store := storagemocks.NewListingStore(t)
	svc := newTestService(t, store)

	windowErr := storage.Fail("select price samples", errors.New("statement timeout"))

	store.EXPECT().CountListings(mock.Anything, mock.Anything).Return(int64(10), nil).Maybe()
	store.EXPECT().CountDistinct(mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	store.EXPECT().SelectPriceSamples(mock.Anything, mock.Anything).Return(nil, windowErr)

	_, err := svc.GetSummaryMetrics(context.Background(), "")
	require.ErrorIs(t, err, windowErr)

	var dsErr *storage.DataSourceError
	require.ErrorAs(t, err, &dsErr)
}

func TestService_ListModels(t *testing.T) {
	store := storagemocks.NewListingStore(t)
	svc := newTestService(t, store)

	store.EXPECT().CountListings(mock.Anything, matchesModel("McLaren", "650%")).Return(int64(12), nil).Once()
	store.EXPECT().CountListings(mock.Anything, matchesModel("Ferrari", "Roma%")).Return(int64(0), nil).Once()
	store.EXPECT().CountListings(mock.Anything, matchesModel("Ford", "GT%")).Return(int64(1), nil).Once()

	models, err := svc.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 3)

	require.Equal(t, "mclaren-650s", models[0].Key)
	require.True(t, models[0].HasPriceData)
	require.Equal(t, "ferrari-roma", models[1].Key)
	require.False(t, models[1].HasPriceData)
	require.Equal(t, "ford-gt", models[2].Key)
	require.True(t, models[2].HasPriceData)

	// Pricing checks, including the cached false, are served from cache.
	models, err = svc.ListModels(context.Background())
	require.NoError(t, err)
	require.False(t, models[1].HasPriceData)
}

func TestService_ListModels_FailureAborts(t *testing.T) {
	store := storagemocks.NewListingStore(t)
	svc := newTestService(t, store)

	countErr := storage.Fail("count listings", errors.New("connection refused"))
	store.EXPECT().CountListings(mock.Anything, mock.Anything).Return(int64(0), countErr)

	_, err := svc.ListModels(context.Background())
	require.ErrorIs(t, err, countErr)
}

func TestService_ConcurrentMissesEachStore(t *testing.T) {
	store := storagemocks.NewListingStore(t)
	svc := newTestService(t, store)

	var calls atomic.Int32
	store.EXPECT().SelectListings(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, storage.Query) ([]storage.Listing, error) {
			calls.Add(1)
			return []storage.Listing{}, nil
		})

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := svc.GetPriceHistory(context.Background(), "ford-gt")
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}

	require.GreaterOrEqual(t, calls.Load(), int32(1))
	require.LessOrEqual(t, calls.Load(), int32(8))

	_, err := svc.GetPriceHistory(context.Background(), "ford-gt")
	require.NoError(t, err)
	require.LessOrEqual(t, calls.Load(), int32(8))
}
