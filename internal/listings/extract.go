package listings

import (
	"math"
	"sort"
	"time"

	"github.com/corsa-lab/corsa-api/internal/core/parse"
	"github.com/corsa-lab/corsa-api/internal/core/storage"
)

// pointKey is the dedup identity of a price point. Mileage and source are
// deliberately not part of it.
type pointKey struct {
	date     string
	price    float64
	identity string
}

// extractPricePoints collects observations from each listing's direct fields
// and both embedded histories, keeps the first occurrence of every identity,
// and orders the survivors by date.
func extractPricePoints(listings []storage.Listing, loc *time.Location) []PricePoint {
	points := make([]PricePoint, 0, len(listings))
	seen := make(map[pointKey]struct{}, len(listings))

	add := func(p PricePoint, identity string) {
		key := pointKey{date: p.Date, price: p.Price, identity: identity}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		points = append(points, p)
	}

	for _, l := range listings {
		identity := l.VIN.Or(l.ID).String
		listingID := l.ID.Ptr()
		vin := l.VIN.Ptr()
		source := l.SourceName.Or(l.Sitecode).Ptr()
		listingMileage := mileage(l.Mileage)

		if price, ok := parse.Currency(l.Price); ok {
			if date, ok := listingDate(l, loc); ok {
				add(PricePoint{
					Date:      date,
					Price:     price,
					Mileage:   listingMileage,
					ListingID: listingID,
					VIN:       vin,
					Source:    source,
				}, identity)
			}
		}

		var history []parse.HistoryEntry
		history = append(history, parse.History(l.PriceHistory)...)
		history = append(history, parse.History(l.ListingHistory)...)
		for _, entry := range history {
			price, ok := parse.Currency(entry.Price())
			if !ok {
				continue
			}
			date, ok := parse.ToISOIn(entry.Date(), loc)
			if !ok {
				continue
			}

			m := mileage(entry.Mileage())
			if m == nil {
				m = listingMileage
			}

			add(PricePoint{
				Date:      date,
				Price:     price,
				Mileage:   m,
				ListingID: listingID,
				VIN:       vin,
				Source:    source,
			}, identity)
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

// listingDate reads the listing's date, falling back to its capture time.
// The fallback also applies when date is present but unparseable, not only
// when it is null, so such rows keep a position in the series.
func listingDate(l storage.Listing, loc *time.Location) (string, bool) {
	if date, ok := parse.ToISOIn(l.Date, loc); ok {
		return date, true
	}
	return parse.ToISOIn(l.CTime, loc)
}

func mileage(raw any) *float64 {
	m, ok := parse.Mileage(raw)
	if !ok {
		return nil
	}
	return &m
}

// computeStats derives the summary of an already date-ordered series. Latest
// price and date come from the last point, not the maximum.
func computeStats(points []PricePoint) PriceStats {
	stats := PriceStats{TotalPoints: len(points)}
	if len(points) == 0 {
		return stats
	}

	prices := make([]float64, len(points))
	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		prices[i] = p.Price
		minPrice = math.Min(minPrice, p.Price)
		maxPrice = math.Max(maxPrice, p.Price)
	}

	last := points[len(points)-1]
	latestPrice, lastUpdated := last.Price, last.Date

	stats.MinPrice = &minPrice
	stats.MaxPrice = &maxPrice
	stats.LatestPrice = &latestPrice
	stats.LastUpdated = &lastUpdated
	if median, ok := parse.Median(prices); ok {
		stats.MedianPrice = &median
	}
	return stats
}

// samplePrices parses every sample's price, dropping the unparseable ones.
func samplePrices(samples []storage.PriceSample) []float64 {
	prices := make([]float64, 0, len(samples))
	for _, s := range samples {
		if price, ok := parse.Currency(s.Price); ok {
			prices = append(prices, price)
		}
	}
	return prices
}
