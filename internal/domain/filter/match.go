package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/kailas-cloud/vetdir/internal/domain/id"
)

// Match evaluates the expression against a decoded record.
// Missing or mistyped fields never match a leaf.
func Match(e Expression, rec map[string]any) bool {
	switch e.op {
	case OpAll:
		return true
	case OpAnd:
		for _, c := range e.children {
			if !Match(c, rec) {
				return false
			}
		}
		return true
	case OpOr:
		for _, c := range e.children {
			if Match(c, rec) {
				return true
			}
		}
		return false
	case OpContains:
		s, ok := rec[e.field].(string)
		return ok && ContainsFold(s, e.value)
	case OpAnyContains:
		for _, s := range stringElems(rec[e.field]) {
			if ContainsFold(s, e.value) {
				return true
			}
		}
		return false
	case OpEquals:
		s, ok := rec[e.field].(string)
		return ok && s == e.value
	case OpIDEquals:
		return id.String(rec[id.Field]) == e.docID.Hex()
	default:
		return false
	}
}

// ContainsFold reports whether sub occurs in s under Unicode case folding.
// Final sigma and accented capitals fold to the same form as their
// lowercase counterparts.
func ContainsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	// A Caser keeps state, so each call gets its own.
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(sub))
}

func stringElems(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, x := range t {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
