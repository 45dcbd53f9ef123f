package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/corsa-lab/corsa-api/internal/core/parse"
	"github.com/corsa-lab/corsa-api/internal/core/storage"
)

// Store implements storage.ListingStore over a Client.
type Store struct {
	client *Client
}

var _ storage.ListingStore = (*Store)(nil)

// NewStore wraps client.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// SelectListings fetches full rows matching q.
func (s *Store) SelectListings(ctx context.Context, q storage.Query) ([]storage.Listing, error) {
	params, err := encodeQuery(storage.ListingColumns, q)
	if err != nil {
		return nil, storage.Fail("select listings", err)
	}

	resp, err := s.client.do(ctx, http.MethodGet, params, nil)
	if err != nil {
		return nil, storage.Fail("select listings", err)
	}

	listings := make([]storage.Listing, 0)
	if err := json.Unmarshal(resp.Body, &listings); err != nil {
		return nil, storage.Fail("select listings", fmt.Errorf("decode listings: %w", err))
	}

	slog.Debug("[PostgREST] Selected listings", "rows", len(listings), "limit", q.Limit())
	return listings, nil
}

// SelectPriceSamples fetches the (price, date) projection of rows matching q.
func (s *Store) SelectPriceSamples(ctx context.Context, q storage.Query) ([]storage.PriceSample, error) {
	params, err := encodeQuery(storage.PriceSampleColumns, q)
	if err != nil {
		return nil, storage.Fail("select price samples", err)
	}

	resp, err := s.client.do(ctx, http.MethodGet, params, nil)
	if err != nil {
		return nil, storage.Fail("select price samples", err)
	}

	samples := make([]storage.PriceSample, 0)
	if err := json.Unmarshal(resp.Body, &samples); err != nil {
		return nil, storage.Fail("select price samples", fmt.Errorf("decode price samples: %w", err))
	}
	return samples, nil
}

// CountListings issues a head-only exact count.
func (s *Store) CountListings(ctx context.Context, q storage.Query) (int64, error) {
	params, err := encodeQuery([]storage.Column{storage.ColumnID}, q.WithLimit(0))
	if err != nil {
		return 0, storage.Fail("count listings", err)
	}
	params.Del("order")

	resp, err := s.client.do(ctx, http.MethodHead, params, map[string]string{"Prefer": "count=exact"})
	if err != nil {
		return 0, storage.Fail("count listings", err)
	}

	total, ok := parseContentRange(resp.Headers.Get("Content-Range"))
	if !ok {
		return 0, storage.Fail("count listings", fmt.Errorf("missing or malformed Content-Range %q", resp.Headers.Get("Content-Range")))
	}
	return total, nil
}

// CountDistinct uses a distinct projection with an exact count. Any
// non-success response or missing count yields nil.
func (s *Store) CountDistinct(ctx context.Context, column storage.Column) (*int64, error) {
	params := url.Values{}
	params.Set("select", string(column))
	params.Set("distinct", "on")

	resp, err := s.client.do(ctx, http.MethodHead, params, map[string]string{"Prefer": "count=exact"})
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			slog.Warn("[PostgREST] Distinct count unavailable", "column", column, "status", httpErr.StatusCode)
			return nil, nil
		}
		return nil, storage.Fail("count distinct", err)
	}

	total, ok := parseContentRange(resp.Headers.Get("Content-Range"))
	if !ok {
		return nil, nil
	}
	return &total, nil
}

// Ping issues a minimal head request against the table.
func (s *Store) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("select", string(storage.ColumnID))
	params.Set("limit", "1")
	if _, err := s.client.do(ctx, http.MethodHead, params, nil); err != nil {
		return storage.Fail("ping", err)
	}
	return nil
}

// encodeQuery translates q into PostgREST query parameters. Repeated
// parameters on one column are combined with AND by the server.
func encodeQuery(columns []storage.Column, q storage.Query) (url.Values, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = string(c)
	}
	params.Set("select", strings.Join(names, ","))

	for _, f := range q.Filters() {
		switch f.Operator {
		case storage.OpILike:
			params.Add(string(f.Column), "ilike."+strings.ReplaceAll(f.Value, "%", "*"))
		default:
			params.Add(string(f.Column), "eq."+f.Value)
		}
	}

	if r, ok := q.DateRange(); ok {
		col := string(storage.ColumnDate)
		params.Add(col, "gte."+parse.FormatISO(r.From))
		if r.ToInclusive {
			params.Add(col, "lte."+parse.FormatISO(r.To))
		} else {
			params.Add(col, "lt."+parse.FormatISO(r.To))
		}
	}

	if q.OrdersByDate() {
		params.Set("order", string(storage.ColumnDate)+".asc.nullslast")
	}
	if q.Limit() > 0 {
		params.Set("limit", strconv.Itoa(q.Limit()))
	}
	return params, nil
}

// parseContentRange reads the total from "0-24/3573" or "*/0".
func parseContentRange(header string) (int64, bool) {
	_, total, found := strings.Cut(header, "/")
	if !found || total == "" || total == "*" {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(total), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
