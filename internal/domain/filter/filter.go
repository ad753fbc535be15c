// Package filter is a portable predicate tree over document records.
//
// Backends either translate an Expression into their native query language
// or evaluate it in process with Match.
package filter

import (
	"strings"

	"github.com/kailas-cloud/vetdir/internal/domain/id"
)

// Op identifies the kind of an Expression node.
type Op int

const (
	// OpAll matches every record.
	OpAll Op = iota
	// OpAnd matches when all children match.
	OpAnd
	// OpOr matches when at least one child matches.
	OpOr
	// OpContains is a case-insensitive substring match on a string field.
	OpContains
	// OpAnyContains is a case-insensitive substring match on any element of a string array field.
	OpAnyContains
	// OpEquals is an exact string match.
	OpEquals
	// OpIDEquals matches the record identifier.
	OpIDEquals
)

// Expression is an immutable predicate node. The zero value matches everything.
type Expression struct {
	op       Op
	field    string
	value    string
	docID    id.ID
	children []Expression
}

// All returns the match-everything expression.
func All() Expression { return Expression{} }

// And combines expressions with logical AND. Match-all operands are dropped.
func And(exprs ...Expression) Expression {
	return combine(OpAnd, exprs)
}

// Or combines expressions with logical OR. An empty Or matches everything.
func Or(exprs ...Expression) Expression {
	for _, e := range exprs {
		if e.IsAll() {
			return All()
		}
	}
	return combine(OpOr, exprs)
}

func combine(op Op, exprs []Expression) Expression {
	kept := make([]Expression, 0, len(exprs))
	for _, e := range exprs {
		if !e.IsAll() {
			kept = append(kept, e)
		}
	}
	switch len(kept) {
	case 0:
		return All()
	case 1:
		return kept[0]
	default:
		return Expression{op: op, children: kept}
	}
}

// Contains matches records whose string field contains sub, ignoring case.
func Contains(field, sub string) Expression {
	return Expression{op: OpContains, field: field, value: sub}
}

// AnyContains matches records where some element of the array field contains sub, ignoring case.
func AnyContains(field, sub string) Expression {
	return Expression{op: OpAnyContains, field: field, value: sub}
}

// Equals matches records whose string field equals value exactly.
func Equals(field, value string) Expression {
	return Expression{op: OpEquals, field: field, value: value}
}

// IDEquals matches the record with the given identifier.
func IDEquals(docID id.ID) Expression {
	return Expression{op: OpIDEquals, field: id.Field, docID: docID}
}

// Op returns the node kind.
func (e Expression) Op() Op { return e.op }

// Field returns the field name of a leaf node.
func (e Expression) Field() string { return e.field }

// Value returns the operand of a string leaf node.
func (e Expression) Value() string { return e.value }

// ID returns the operand of an OpIDEquals node.
func (e Expression) ID() id.ID { return e.docID }

// Children returns the operands of an OpAnd/OpOr node.
func (e Expression) Children() []Expression { return e.children }

// IsAll reports whether the expression matches every record.
func (e Expression) IsAll() bool { return e.op == OpAll }

// String renders the expression for logs.
func (e Expression) String() string {
	switch e.op {
	case OpAnd, OpOr:
		sep := " AND "
		if e.op == OpOr {
			sep = " OR "
		}
		parts := make([]string, len(e.children))
		for i, c := range e.children {
			parts[i] = c.String()
		}
		return "(" + strings.Join(parts, sep) + ")"
	case OpContains:
		return e.field + " ~ " + quote(e.value)
	case OpAnyContains:
		return "any(" + e.field + ") ~ " + quote(e.value)
	case OpEquals:
		return e.field + " = " + quote(e.value)
	case OpIDEquals:
		return id.Field + " = " + e.docID.Hex()
	default:
		return "*"
	}
}

func quote(s string) string { return `"` + s + `"` }
