package storage

import (
	"fmt"
	"time"
)

// Column names a listings-table column that queries may reference.
type Column string

const (
	ColumnID           Column = "id"
	ColumnMake         Column = "make"
	ColumnModel        Column = "model"
	ColumnBackendModel Column = "backendModel"
	ColumnTitle        Column = "title"
	ColumnVIN          Column = "vin"
	ColumnPrice        Column = "price"
	ColumnDate         Column = "date"
)

var filterableColumns = map[Column]bool{
	ColumnMake:         true,
	ColumnModel:        true,
	ColumnBackendModel: true,
	ColumnTitle:        true,
	ColumnVIN:          true,
}

// Operator is the comparison applied by a FilterClause.
type Operator string

const (
	// OpEquals is exact equality.
	OpEquals Operator = "eq"
	// OpILike is a case-insensitive pattern match; '%' is the wildcard.
	OpILike Operator = "ilike"
)

// FilterClause is one predicate of a conjunction.
type FilterClause struct {
	Column   Column   `json:"column" yaml:"column"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    string   `json:"value" yaml:"value"`
}

// Validate rejects clauses no backend can translate.
func (f FilterClause) Validate() error {
	if !filterableColumns[f.Column] {
		return fmt.Errorf("unsupported filter column %q", f.Column)
	}
	switch f.Operator {
	case OpEquals, OpILike:
	default:
		return fmt.Errorf("unsupported filter operator %q", f.Operator)
	}
	return nil
}

// Equals builds an equality clause.
func Equals(column Column, value string) FilterClause {
	return FilterClause{Column: column, Operator: OpEquals, Value: value}
}

// ILike builds a case-insensitive pattern clause.
func ILike(column Column, pattern string) FilterClause {
	return FilterClause{Column: column, Operator: OpILike, Value: pattern}
}

// DateRange bounds the date column. From is inclusive; To is inclusive only
// when ToInclusive is set.
type DateRange struct {
	From        time.Time
	To          time.Time
	ToInclusive bool
}

// Query is an immutable description of a listings selection. The With*
// methods return modified copies and never alias the receiver's filters.
type Query struct {
	filters   []FilterClause
	dateRange *DateRange
	orderDate bool
	limit     int
}

// NewQuery returns a query matching the conjunction of filters.
func NewQuery(filters ...FilterClause) Query {
	return Query{filters: cloneFilters(filters)}
}

// Where returns a copy with additional clauses appended.
func (q Query) Where(filters ...FilterClause) Query {
	next := q
	next.filters = append(cloneFilters(q.filters), filters...)
	return next
}

// Between returns a copy restricted to a date range.
func (q Query) Between(r DateRange) Query {
	next := q
	next.dateRange = &r
	return next
}

// OrderByDate returns a copy ordered by date ascending with nulls last.
func (q Query) OrderByDate() Query {
	next := q
	next.orderDate = true
	return next
}

// WithLimit returns a copy capped at n rows. n <= 0 means unlimited.
func (q Query) WithLimit(n int) Query {
	next := q
	next.limit = n
	return next
}

// Filters returns a copy of the query's clauses.
func (q Query) Filters() []FilterClause { return cloneFilters(q.filters) }

// DateRange returns the date restriction, if any.
func (q Query) DateRange() (DateRange, bool) {
	if q.dateRange == nil {
		return DateRange{}, false
	}
	return *q.dateRange, true
}

// OrdersByDate reports whether rows are ordered by date ascending.
func (q Query) OrdersByDate() bool { return q.orderDate }

// Limit returns the row cap; 0 means unlimited.
func (q Query) Limit() int { return q.limit }

// Validate checks every clause.
func (q Query) Validate() error {
	for _, f := range q.filters {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func cloneFilters(filters []FilterClause) []FilterClause {
	if len(filters) == 0 {
		return nil
	}
	out := make([]FilterClause, len(filters))
	copy(out, filters)
	return out
}
