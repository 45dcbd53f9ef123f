package listings

import "github.com/corsa-lab/corsa-api/internal/catalog"

// ModelMetadata is a registered model plus whether any listing matches it.
type ModelMetadata struct {
	catalog.ModelDefinition
	HasPriceData bool `json:"hasPriceData"`
}

// PricePoint is one normalized (date, price) observation. Date is always an
// ISO-8601 UTC timestamp and Price always finite.
type PricePoint struct {
	Date      string   `json:"date"`
	Price     float64  `json:"price"`
	Mileage   *float64 `json:"mileage"`
	ListingID *string  `json:"listingId"`
	VIN       *string  `json:"vin"`
	Source    *string  `json:"source"`
}

// PriceStats summarizes a price series. Every field except TotalPoints is
// null for an empty series.
type PriceStats struct {
	MinPrice    *float64 `json:"minPrice"`
	MaxPrice    *float64 `json:"maxPrice"`
	MedianPrice *float64 `json:"medianPrice"`
	LatestPrice *float64 `json:"latestPrice"`
	LastUpdated *string  `json:"lastUpdated"`
	TotalPoints int      `json:"totalPoints"`
}

// PriceHistoryResponse is the deduplicated, date-ordered series for one model.
type PriceHistoryResponse struct {
	Model  catalog.ModelDefinition `json:"model"`
	Stats  PriceStats              `json:"stats"`
	Points []PricePoint            `json:"points"`
}

// PriceTrend compares the current and previous window averages.
type PriceTrend struct {
	Current  *float64 `json:"current"`
	Previous *float64 `json:"previous"`
	Delta    *float64 `json:"delta"`
}

// SummaryMetrics are fleet-wide or per-model market figures.
type SummaryMetrics struct {
	TotalListings      *int64     `json:"totalListings"`
	UniqueVins         *int64     `json:"uniqueVins"`
	AverageAskingPrice *float64   `json:"averageAskingPrice"`
	PriceTrend         PriceTrend `json:"priceTrend"`
	UpdatedAt          string     `json:"updatedAt"`
}
