package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Listing is one scraped listing row. Rows are loosely typed: every field may
// be missing, and the mixed-encoding fields (Price, Mileage, Date, CTime and
// both histories) keep whatever the source delivered. They are normalized by
// the parse package, never here.
type Listing struct {
	ID             Text `json:"id"`
	Make           Text `json:"make"`
	Model          Text `json:"model"`
	BackendModel   Text `json:"backendModel"`
	Trim           Text `json:"trim"`
	VIN            Text `json:"vin"`
	Price          any  `json:"price"`
	PriceHistory   any  `json:"priceHistory"`
	ListingHistory any  `json:"listingHistory"`
	Mileage        any  `json:"mileage"`
	Date           any  `json:"date"`
	CTime          any  `json:"ctime"`
	Img            Text `json:"img"`
	Location       Text `json:"location"`
	Sitecode       Text `json:"sitecode"`
	SourceName     Text `json:"sourceName"`
	Title          Text `json:"title"`
}

// ListingColumns is the full-row projection, in scan order.
var ListingColumns = []Column{
	"id", "make", "model", "backendModel", "trim", "vin", "price",
	"priceHistory", "listingHistory", "mileage", "date", "ctime",
	"img", "location", "sitecode", "sourceName", "title",
}

// ScanTargets returns pointers matching ListingColumns.
func (l *Listing) ScanTargets() []any {
	return []any{
		&l.ID, &l.Make, &l.Model, &l.BackendModel, &l.Trim, &l.VIN, &l.Price,
		&l.PriceHistory, &l.ListingHistory, &l.Mileage, &l.Date, &l.CTime,
		&l.Img, &l.Location, &l.Sitecode, &l.SourceName, &l.Title,
	}
}

// PriceSample is the (price, date) projection used for trend windows.
type PriceSample struct {
	Price any `json:"price"`
	Date  any `json:"date"`
}

// PriceSampleColumns is the sample projection, in scan order.
var PriceSampleColumns = []Column{ColumnPrice, ColumnDate}

// Text is a nullable text column. It tolerates numeric encodings so an id or
// VIN stored as a number still reads as text.
type Text struct {
	String string
	Valid  bool
}

// NewText returns a valid Text.
func NewText(s string) Text { return Text{String: s, Valid: true} }

// Ptr returns nil for NULL, else a pointer to the value.
func (t Text) Ptr() *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// Or returns t when valid, else other.
func (t Text) Or(other Text) Text {
	if t.Valid {
		return t
	}
	return other
}

// Scan implements sql.Scanner.
func (t *Text) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Text{}
	case string:
		*t = NewText(v)
	case []byte:
		*t = NewText(string(v))
	case int64:
		*t = NewText(strconv.FormatInt(v, 10))
	case float64:
		*t = NewText(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		*t = NewText(strconv.FormatBool(v))
	case time.Time:
		*t = NewText(v.UTC().Format(time.RFC3339Nano))
	default:
		return fmt.Errorf("unsupported text source %T", src)
	}
	return nil
}

// UnmarshalJSON accepts strings, null, and any other literal as its raw text.
func (t *Text) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = Text{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = NewText(s)
		return nil
	}
	*t = NewText(string(trimmed))
	return nil
}

// MarshalJSON renders NULL as null.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.String)
}
