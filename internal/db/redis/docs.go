package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/vetdir/internal/db"
	"github.com/kailas-cloud/vetdir/internal/domain/filter"
	"github.com/kailas-cloud/vetdir/internal/domain/id"
)

// CreateDocument writes the JSON body and registers the id in one DoMulti round-trip.
func (s *Store) CreateDocument(ctx context.Context, collection string, rec db.Record) (string, error) {
	body, err := encode(rec)
	if err != nil {
		return "", &db.Error{Op: db.OpInsert, Err: err}
	}

	hex := id.New().Hex()
	cmds := rueidis.Commands{
		s.b().Set().Key(s.docKey(collection, hex)).Value(rueidis.BinaryString(body)).Build(),
		s.b().Sadd().Key(s.idsKey(collection)).Member(hex).Build(),
	}
	for _, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return "", &db.Error{Op: db.OpInsert, Err: err}
		}
	}
	return hex, nil
}

// GetDocuments loads every document of the collection and filters in-process.
// Documents are visited in id order, which follows creation time.
func (s *Store) GetDocuments(ctx context.Context, collection string, f filter.Expression, limit int) ([]db.Record, error) {
	docs, err := s.load(ctx, collection)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	out := make([]db.Record, 0)
	for _, doc := range docs {
		if limit > 0 && len(out) >= limit {
			break
		}
		if filter.Match(f, doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// UpdateDocument merges fields into the stored JSON body.
func (s *Store) UpdateDocument(ctx context.Context, collection string, docID id.ID, fields db.Record) error {
	key := s.docKey(collection, docID.Hex())

	data, err := s.do(ctx, s.b().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return db.ErrKeyNotFound
		}
		return &db.Error{Op: db.OpUpdate, Err: err}
	}

	doc, err := decode(docID.Hex(), data)
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	for k, v := range fields {
		if k != id.Field {
			doc[k] = v
		}
	}

	body, err := encode(doc)
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(body)).Xx().Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return db.ErrKeyNotFound
		}
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	return nil
}

// Aggregate computes average and count of a numeric field in-process.
func (s *Store) Aggregate(ctx context.Context, collection string, f filter.Expression, field string) (db.Aggregation, error) {
	docs, err := s.load(ctx, collection)
	if err != nil {
		return db.Aggregation{}, &db.Error{Op: db.OpAggregate, Err: err}
	}

	var sum float64
	var count, numeric int
	for _, doc := range docs {
		if !filter.Match(f, doc) {
			continue
		}
		count++
		if v, ok := doc[field]; ok && v != nil {
			sum += doc.Float(field, 0)
			numeric++
		}
	}

	agg := db.Aggregation{Count: count}
	if numeric > 0 {
		agg.Average = sum / float64(numeric)
	}
	return agg, nil
}

// load fetches every document of a collection. Ids whose key has
// disappeared are skipped.
func (s *Store) load(ctx context.Context, collection string) ([]db.Record, error) {
	ids, err := s.do(ctx, s.b().Smembers().Key(s.idsKey(collection)).Build()).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)

	cmds := make(rueidis.Commands, len(ids))
	for i, hex := range ids {
		cmds[i] = s.b().Get().Key(s.docKey(collection, hex)).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	docs := make([]db.Record, 0, len(results))
	for i, res := range results {
		data, err := res.AsBytes()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				continue
			}
			return nil, fmt.Errorf("get %s: %w", ids[i], err)
		}
		doc, err := decode(ids[i], data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func encode(rec db.Record) ([]byte, error) {
	m := make(map[string]any, len(rec))
	for k, v := range rec {
		if k != id.Field {
			m[k] = v
		}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func decode(hex string, data []byte) (db.Record, error) {
	var doc db.Record
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", hex, err)
	}
	if doc == nil {
		doc = db.Record{}
	}
	if oid, err := id.Parse(hex); err == nil {
		doc[id.Field] = oid
	} else {
		doc[id.Field] = hex
	}
	return doc, nil
}
