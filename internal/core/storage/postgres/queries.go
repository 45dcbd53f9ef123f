package postgres

import (
	"fmt"
	"strings"

	"github.com/corsa-lab/corsa-api/internal/core/parse"
	"github.com/corsa-lab/corsa-api/internal/core/storage"
	"github.com/lib/pq"
)

const (
	// queryTableExists backs the startup schema check.
	queryTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = $1
		)
	`
)

// statement is a translated query and its positional arguments.
type statement struct {
	sql  string
	args []any
}

// buildSelect translates q into a SELECT over columns. Every valid Query has
// exactly one translation; invalid clauses are rejected before any SQL is built.
func buildSelect(table string, columns []storage.Column, q storage.Query) (statement, error) {
	if err := q.Validate(); err != nil {
		return statement{}, err
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pq.QuoteIdentifier(string(c))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(quoted, ", "), pq.QuoteIdentifier(table))

	args := writeWhere(&b, q)

	if q.OrdersByDate() {
		fmt.Fprintf(&b, " ORDER BY %s ASC NULLS LAST", pq.QuoteIdentifier(string(storage.ColumnDate)))
	}
	if q.Limit() > 0 {
		args = append(args, q.Limit())
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}

	return statement{sql: b.String(), args: args}, nil
}

// buildCount translates q into an exact COUNT(*). Ordering and limit are ignored.
func buildCount(table string, q storage.Query) (statement, error) {
	if err := q.Validate(); err != nil {
		return statement{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT COUNT(*) FROM %s", pq.QuoteIdentifier(table))
	args := writeWhere(&b, q)

	return statement{sql: b.String(), args: args}, nil
}

func buildCountDistinct(table string, column storage.Column) statement {
	col := pq.QuoteIdentifier(string(column))
	return statement{
		sql: fmt.Sprintf("SELECT COUNT(DISTINCT %s) FROM %s WHERE %s IS NOT NULL",
			col, pq.QuoteIdentifier(table), col),
	}
}

func writeWhere(b *strings.Builder, q storage.Query) []any {
	var (
		conds []string
		args  []any
	)

	for _, f := range q.Filters() {
		args = append(args, f.Value)
		col := pq.QuoteIdentifier(string(f.Column))
		switch f.Operator {
		case storage.OpILike:
			conds = append(conds, fmt.Sprintf("%s ILIKE $%d", col, len(args)))
		default:
			conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}

	if r, ok := q.DateRange(); ok {
		col := pq.QuoteIdentifier(string(storage.ColumnDate))
		args = append(args, parse.FormatISO(r.From))
		conds = append(conds, fmt.Sprintf("%s >= $%d", col, len(args)))

		upper := "<"
		if r.ToInclusive {
			upper = "<="
		}
		args = append(args, parse.FormatISO(r.To))
		conds = append(conds, fmt.Sprintf("%s %s $%d", col, upper, len(args)))
	}

	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	return args
}
