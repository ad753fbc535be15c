package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/vetdir/internal/db"
	"github.com/kailas-cloud/vetdir/internal/domain/filter"
	"github.com/kailas-cloud/vetdir/internal/domain/id"
)

// toBSON translates a filter expression into a MongoDB query document.
// Substring operands are regex-quoted so user input is matched literally.
func toBSON(e filter.Expression) bson.D {
	switch e.Op() {
	case filter.OpAnd, filter.OpOr:
		key := "$and"
		if e.Op() == filter.OpOr {
			key = "$or"
		}
		children := e.Children()
		arr := make(bson.A, len(children))
		for i, c := range children {
			arr[i] = toBSON(c)
		}
		return bson.D{{Key: key, Value: arr}}
	case filter.OpContains:
		return bson.D{{Key: e.Field(), Value: substring(e.Value())}}
	case filter.OpAnyContains:
		return bson.D{{Key: e.Field(), Value: bson.D{{Key: "$elemMatch", Value: substring(e.Value())}}}}
	case filter.OpEquals:
		return bson.D{{Key: e.Field(), Value: e.Value()}}
	case filter.OpIDEquals:
		return bson.D{{Key: id.Field, Value: e.ID()}}
	default:
		return bson.D{}
	}
}

func substring(s string) bson.D {
	return bson.D{{Key: "$regex", Value: primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}}}
}

// normalizeDoc converts driver container types into Go natives so records
// look the same for every backend.
func normalizeDoc(d bson.M) db.Record {
	out := make(db.Record, len(d))
	for k, v := range d {
		if k == id.Field {
			out[k] = v
			continue
		}
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		m := make(map[string]any, len(t))
		for k, x := range t {
			m[k] = normalizeValue(x)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case bson.A:
		arr := make([]any, len(t))
		for i, x := range t {
			arr[i] = normalizeValue(x)
		}
		return arr
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time()
	default:
		return v
	}
}
