package postgres

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/vetdir/internal/domain/filter"
)

// where accumulates positional arguments while rendering a filter as SQL.
// $1 is always the collection name.
type where struct {
	args []any
}

func newWhere(collection string) *where {
	return &where{args: []any{collection}}
}

func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

// build renders e as a boolean SQL expression over the body column.
// Field names and operands are always bound as parameters.
func (w *where) build(e filter.Expression) string {
	switch e.Op() {
	case filter.OpAnd, filter.OpOr:
		sep := " AND "
		if e.Op() == filter.OpOr {
			sep = " OR "
		}
		children := e.Children()
		parts := make([]string, len(children))
		for i, c := range children {
			parts[i] = w.build(c)
		}
		return "(" + strings.Join(parts, sep) + ")"
	case filter.OpContains:
		field := w.arg(e.Field())
		pattern := w.arg(likePattern(e.Value()))
		return "(body->>" + field + "::text) ILIKE " + pattern
	case filter.OpAnyContains:
		field := w.arg(e.Field())
		pattern := w.arg(likePattern(e.Value()))
		return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(" +
			"CASE WHEN jsonb_typeof(body->" + field + "::text) = 'array' " +
			"THEN body->" + field + "::text ELSE '[]'::jsonb END) AS e(v) " +
			"WHERE e.v ILIKE " + pattern + ")"
	case filter.OpEquals:
		field := w.arg(e.Field())
		value := w.arg(e.Value())
		return "(body->>" + field + "::text) = " + value
	case filter.OpIDEquals:
		return "id = " + w.arg(e.ID().Hex())
	default:
		return "TRUE"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s for a literal substring ILIKE match.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
