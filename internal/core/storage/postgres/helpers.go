package postgres

import (
	"database/sql"
	"fmt"

	"github.com/corsa-lab/corsa-api/internal/core/storage"
)

// scanListingRows drains rows into listings. Raw driver bytes are converted to
// strings so cached rows never alias driver buffers.
func scanListingRows(rows *sql.Rows) ([]storage.Listing, error) {
	listings := make([]storage.Listing, 0)
	for rows.Next() {
		var l storage.Listing
		if err := rows.Scan(l.ScanTargets()...); err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		l.Price = driverValue(l.Price)
		l.PriceHistory = driverValue(l.PriceHistory)
		l.ListingHistory = driverValue(l.ListingHistory)
		l.Mileage = driverValue(l.Mileage)
		l.Date = driverValue(l.Date)
		l.CTime = driverValue(l.CTime)
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}
	return listings, nil
}

func scanSampleRows(rows *sql.Rows) ([]storage.PriceSample, error) {
	samples := make([]storage.PriceSample, 0)
	for rows.Next() {
		var s storage.PriceSample
		if err := rows.Scan(&s.Price, &s.Date); err != nil {
			return nil, fmt.Errorf("failed to scan price sample: %w", err)
		}
		s.Price = driverValue(s.Price)
		s.Date = driverValue(s.Date)
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price samples: %w", err)
	}
	return samples, nil
}

func driverValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
