// Package id defines the store-native document identifier.
//
// Identifiers use the 12-byte ObjectID encoding regardless of the backend,
// so a string produced by one store parses the same way for every other.
package id

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/vetdir/internal/domain"
)

// Field is the record key holding a document identifier.
const Field = "_id"

// ID is a document identifier.
type ID = primitive.ObjectID

// New generates a fresh identifier.
func New() ID {
	return primitive.NewObjectID()
}

// Parse decodes a 24-character hex identifier.
// Malformed input yields domain.ErrInvalidID.
func Parse(s string) (ID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return ID{}, fmt.Errorf("%q: %w", s, domain.ErrInvalidID)
	}
	return oid, nil
}

// String renders a raw identifier value as found in a record.
// Returns "" for values that are not identifiers.
func String(v any) string {
	switch t := v.(type) {
	case ID:
		return t.Hex()
	case string:
		return t
	default:
		return ""
	}
}
