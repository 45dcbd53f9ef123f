package listings

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	httperr "github.com/corsa-lab/corsa-api/internal/core/errors"
	"github.com/corsa-lab/corsa-api/internal/core/storage"
	storagemocks "github.com/corsa-lab/corsa-api/internal/mocks/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_Handlers_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		path           string
		configure      func(store *storagemocks.ListingStore)
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "unknown model price history returns 404",
			path:           "/api/models/unknown-key/price-history",
			configure:      func(_ *storagemocks.ListingStore) {},
			expectedStatus: http.StatusNotFound,
			expectedType:   httperr.HttpModelNotFoundError,
		},
		{
			name:           "unknown model summary returns 404",
			path:           "/api/metrics/summary?modelKey=unknown-key",
			configure:      func(_ *storagemocks.ListingStore) {},
			expectedStatus: http.StatusNotFound,
			expectedType:   httperr.HttpModelNotFoundError,
		},
		{
			name: "data source failure returns 500",
			path: "/api/models/ford-gt/price-history",
			configure: func(store *storagemocks.ListingStore) {
				store.EXPECT().SelectListings(mock.Anything, mock.Anything).
					Return(nil, storage.Fail("select listings", errors.New("db down"))).
					Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   httperr.HttpInternalError,
		},
		{
			name: "list models failure returns 500",
			path: "/api/models",
			configure: func(store *storagemocks.ListingStore) {
				store.EXPECT().CountListings(mock.Anything, mock.Anything).
					Return(int64(0), errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   httperr.HttpInternalError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := storagemocks.NewListingStore(t)
			tc.configure(store)

			r := gin.New()
			newTestService(t, store).RegisterRoutes(r)

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)

			if resp.Code != tc.expectedStatus {
				t.Logf("unexpected response body: %s", resp.Body.String())
			}
			require.Equal(t, tc.expectedStatus, resp.Code)

			var body httperr.ErrorResponse
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			require.Equal(t, tc.expectedType, body.ErrorType)
			require.NotEmpty(t, body.Message)
		})
	}
}

func TestService_HandlePriceHistory_EmptyModelShape(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := storagemocks.NewListingStore(t)
	store.EXPECT().SelectListings(mock.Anything, mock.Anything).Return([]storage.Listing{}, nil).Once()

	r := gin.New()
	newTestService(t, store).RegisterRoutes(r)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/models/ford-gt/price-history", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	require.JSONEq(t, `{
		"model": {
			"key": "ford-gt",
			"make": "Ford",
			"label": "GT",
			"filters": [
				{"column": "make", "operator": "eq", "value": "Ford"},
				{"column": "model", "operator": "ilike", "value": "GT%"}
			]
		},
		"stats": {
			"minPrice": null,
			"maxPrice": null,
			"medianPrice": null,
			"latestPrice": null,
			"lastUpdated": null,
			"totalPoints": 0
		},
		"points": []
	}`, resp.Body.String())
}

func TestService_HandleListModels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := storagemocks.NewListingStore(t)
	store.EXPECT().CountListings(mock.Anything, mock.Anything).Return(int64(2), nil).Times(3)

	r := gin.New()
	newTestService(t, store).RegisterRoutes(r)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Data []struct {
			Key          string `json:"key"`
			HasPriceData bool   `json:"hasPriceData"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Data, 3)
	require.Equal(t, "mclaren-650s", body.Data[0].Key)
	require.True(t, body.Data[0].HasPriceData)
}

func TestService_HandleSummaryMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := storagemocks.NewListingStore(t)
	store.EXPECT().CountListings(mock.Anything, mock.Anything).Return(int64(7), nil).Once()
	store.EXPECT().CountDistinct(mock.Anything, storage.ColumnVIN).Return(nil, nil).Once()
	store.EXPECT().SelectPriceSamples(mock.Anything, mock.Anything).Return([]storage.PriceSample{}, nil).Twice()

	r := gin.New()
	newTestService(t, store).RegisterRoutes(r)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/metrics/summary", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	require.JSONEq(t, `{
		"totalListings": 7,
		"uniqueVins": null,
		"averageAskingPrice": null,
		"priceTrend": {"current": null, "previous": null, "delta": null},
		"updatedAt": "2026-10-16T12:00:00.000Z"
	}`, resp.Body.String())
}

func TestService_HandlePriceHistory_UnknownModelMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	newTestService(t, storagemocks.NewListingStore(t)).RegisterRoutes(r)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/models/unknown-key/price-history", nil))
	require.Equal(t, http.StatusNotFound, resp.Code)

	var body httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "Unknown model key: unknown-key", body.Message)
}
