package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/corsa-lab/corsa-api/internal/core/storage"
	"github.com/stretchr/testify/require"
)

const listingSelectPrefix = `SELECT "id", "make", "model", "backendModel", "trim", "vin", "price", ` +
	`"priceHistory", "listingHistory", "mileage", "date", "ctime", "img", "location", ` +
	`"sitecode", "sourceName", "title" FROM "listings"`

func TestBuildSelect(t *testing.T) {
	from := time.Date(2026, 9, 16, 12, 0, 0, 0, time.UTC)
	to := from.Add(30 * 24 * time.Hour)

	tests := []struct {
		name     string
		columns  []storage.Column
		query    storage.Query
		wantSQL  string
		wantArgs []any
		wantErr  string
	}{
		{
			name:    "no filters",
			columns: storage.ListingColumns,
			query:   storage.NewQuery(),
			wantSQL: listingSelectPrefix,
		},
		{
			name:    "model filters ordered and limited",
			columns: storage.ListingColumns,
			query: storage.NewQuery(
				storage.Equals(storage.ColumnMake, "McLaren"),
				storage.ILike(storage.ColumnModel, "650%"),
			).OrderByDate().WithLimit(2000),
			wantSQL:  listingSelectPrefix + ` WHERE "make" = $1 AND "model" ILIKE $2 ORDER BY "date" ASC NULLS LAST LIMIT $3`,
			wantArgs: []any{"McLaren", "650%", 2000},
		},
		{
			name:    "half-open window",
			columns: storage.PriceSampleColumns,
			query: storage.NewQuery(storage.Equals(storage.ColumnMake, "Ferrari")).
				Between(storage.DateRange{From: from, To: to}).
				WithLimit(10000),
			wantSQL:  `SELECT "price", "date" FROM "listings" WHERE "make" = $1 AND "date" >= $2 AND "date" < $3 LIMIT $4`,
			wantArgs: []any{"Ferrari", "2026-09-16T12:00:00.000Z", "2026-10-16T12:00:00.000Z", 10000},
		},
		{
			name:    "closed window",
			columns: storage.PriceSampleColumns,
			query:   storage.NewQuery().Between(storage.DateRange{From: from, To: to, ToInclusive: true}),
			wantSQL: `SELECT "price", "date" FROM "listings" WHERE "date" >= $1 AND "date" <= $2`,
			wantArgs: []any{
				"2026-09-16T12:00:00.000Z", "2026-10-16T12:00:00.000Z",
			},
		},
		{
			name:    "unsupported column rejected",
			columns: storage.ListingColumns,
			query:   storage.NewQuery(storage.Equals("price; DROP TABLE listings", "1")),
			wantErr: "unsupported filter column",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stmt, err := buildSelect("listings", tc.columns, tc.query)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantSQL, stmt.sql)
			require.Equal(t, tc.wantArgs, stmt.args)
		})
	}
}

func TestBuildCount_IgnoresOrderAndLimit(t *testing.T) {
	q := storage.NewQuery(storage.Equals(storage.ColumnMake, "Porsche")).OrderByDate().WithLimit(1)

	stmt, err := buildCount("listings", q)
	require.NoError(t, err)
	require.Equal(t, `SELECT COUNT(*) FROM "listings" WHERE "make" = $1`, stmt.sql)
	require.Equal(t, []any{"Porsche"}, stmt.args)
}

func TestAdapter_SelectListings(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	q := storage.NewQuery(
		storage.Equals(storage.ColumnMake, "McLaren"),
		storage.ILike(storage.ColumnModel, "720S%"),
	).OrderByDate().WithLimit(2000)

	mock.ExpectQuery(regexp.QuoteMeta(listingSelectPrefix+` WHERE "make" = $1 AND "model" ILIKE $2 ORDER BY "date" ASC NULLS LAST LIMIT $3`)).
		WithArgs("McLaren", "720S%", 2000).
		WillReturnRows(sqlmock.NewRows(listingRowColumns()).
			AddRow(
				"lst-1", "McLaren", "720S Spider", nil, "Performance", "SBM14FCA0LW004321",
				"$289,000", []byte(`[{"date":"2026-01-05","price":"$299,000"}]`), nil,
				"4,210 mi", "2026-02-01", int64(1769904000),
				nil, "Miami, FL", "bat", nil, "2020 McLaren 720S Spider",
			).
			AddRow(
				int64(42), "McLaren", "720S", nil, nil, nil,
				float64(265000), nil, nil,
				nil, nil, int64(1769904000),
				nil, nil, nil, "Cars & Bids", nil,
			),
		).RowsWillBeClosed()

	listings, err := adapter.SelectListings(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	first := listings[0]
	require.Equal(t, storage.NewText("lst-1"), first.ID)
	require.Equal(t, "$289,000", first.Price)
	require.Equal(t, `[{"date":"2026-01-05","price":"$299,000"}]`, first.PriceHistory)
	require.False(t, first.BackendModel.Valid)
	require.Nil(t, first.ListingHistory)
	require.Equal(t, storage.NewText("bat"), first.Sitecode)

	second := listings[1]
	require.Equal(t, storage.NewText("42"), second.ID)
	require.Equal(t, float64(265000), second.Price)
	require.Nil(t, second.Date)
	require.Equal(t, int64(1769904000), second.CTime)
	require.Equal(t, storage.NewText("Cars & Bids"), second.SourceName)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_SelectListings_EmptyResultIsNotNil(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(regexp.QuoteMeta(listingSelectPrefix)).
		WillReturnRows(sqlmock.NewRows(listingRowColumns()))

	listings, err := adapter.SelectListings(context.Background(), storage.NewQuery())
	require.NoError(t, err)
	require.NotNil(t, listings)
	require.Empty(t, listings)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_SelectListings_WrapsQueryFailure(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	queryErr := errors.New("connection reset by peer")
	mock.ExpectQuery(regexp.QuoteMeta(listingSelectPrefix)).WillReturnError(queryErr)

	_, err := adapter.SelectListings(context.Background(), storage.NewQuery())
	require.Error(t, err)

	var dsErr *storage.DataSourceError
	require.ErrorAs(t, err, &dsErr)
	require.Equal(t, "select listings", dsErr.Op)
	require.ErrorIs(t, err, queryErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_SelectPriceSamples(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	from := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	to := from.Add(30 * 24 * time.Hour)
	q := storage.NewQuery().Between(storage.DateRange{From: from, To: to}).WithLimit(10000)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "price", "date" FROM "listings" WHERE "date" >= $1 AND "date" < $2 LIMIT $3`)).
		WithArgs("2026-08-17T00:00:00.000Z", "2026-09-16T00:00:00.000Z", 10000).
		WillReturnRows(sqlmock.NewRows([]string{"price", "date"}).
			AddRow("$100,000", "2026-09-01").
			AddRow([]byte("95000"), nil))

	samples, err := adapter.SelectPriceSamples(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, []storage.PriceSample{
		{Price: "$100,000", Date: "2026-09-01"},
		{Price: "95000", Date: nil},
	}, samples)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_CountListings(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "listings" WHERE "make" = $1 AND "model" ILIKE $2`)).
		WithArgs("Lamborghini", "Aventador%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(17)))

	count, err := adapter.CountListings(context.Background(), storage.NewQuery(
		storage.Equals(storage.ColumnMake, "Lamborghini"),
		storage.ILike(storage.ColumnModel, "Aventador%"),
	))
	require.NoError(t, err)
	require.Equal(t, int64(17), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_CountDistinct(t *testing.T) {
	const query = `SELECT COUNT(DISTINCT "vin") FROM "listings" WHERE "vin" IS NOT NULL`

	t.Run("returns count", func(t *testing.T) {
		adapter, mock := newMockAdapter(t)
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(812)))

		count, err := adapter.CountDistinct(context.Background(), storage.ColumnVIN)
		require.NoError(t, err)
		require.NotNil(t, count)
		require.Equal(t, int64(812), *count)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure yields nil", func(t *testing.T) {
		adapter, mock := newMockAdapter(t)
		mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnError(errors.New("permission denied"))

		count, err := adapter.CountDistinct(context.Background(), storage.ColumnVIN)
		require.NoError(t, err)
		require.Nil(t, count)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdapter_ValidateSchema(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryTableExists)).
		WithArgs("listings").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := adapter.ValidateSchema(context.Background())
	require.ErrorContains(t, err, "listings table does not exist")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_CloseReturnsDBCloseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dbCloseErr := errors.New("db close failed")
	mock.ExpectClose().WillReturnError(dbCloseErr)

	adapter := NewAdapterWithDB(db, "")
	err = adapter.Close()
	require.ErrorContains(t, err, "failed to close database")
	require.ErrorIs(t, err, dbCloseErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewAdapterWithDB(db, "listings"), mock
}

func listingRowColumns() []string {
	cols := make([]string, len(storage.ListingColumns))
	for i, c := range storage.ListingColumns {
		cols[i] = string(c)
	}
	return cols
}
