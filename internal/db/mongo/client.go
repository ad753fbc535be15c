// Package mongo implements db.Store on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kailas-cloud/vetdir/internal/db"
	"github.com/kailas-cloud/vetdir/internal/domain/filter"
	"github.com/kailas-cloud/vetdir/internal/domain/id"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultDatabase is used when Config.Database is empty.
const DefaultDatabase = "vetdir"

// Config holds connection parameters for a MongoDB store.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Store implements db.Store via the official MongoDB driver.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB and verifies the connection with a ping.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.New("uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &db.Error{Op: db.OpPing, Err: err}
	}

	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() {
	_ = s.client.Disconnect(context.Background())
}

// CreateDocument inserts rec with a generated ObjectID.
func (s *Store) CreateDocument(ctx context.Context, collection string, rec db.Record) (string, error) {
	doc := make(bson.M, len(rec)+1)
	for k, v := range rec {
		doc[k] = v
	}
	docID := id.New()
	doc[id.Field] = docID

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", &db.Error{Op: db.OpInsert, Err: err}
	}
	return docID.Hex(), nil
}

// GetDocuments runs a find with the translated filter.
func (s *Store) GetDocuments(ctx context.Context, collection string, f filter.Expression, limit int) ([]db.Record, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.db.Collection(collection).Find(ctx, toBSON(f), opts)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: fmt.Errorf("decode: %w", err)}
	}

	out := make([]db.Record, len(docs))
	for i, d := range docs {
		out[i] = normalizeDoc(d)
	}
	return out, nil
}

// UpdateDocument applies $set with fields.
func (s *Store) UpdateDocument(ctx context.Context, collection string, docID id.ID, fields db.Record) error {
	set := make(bson.M, len(fields))
	for k, v := range fields {
		if k != id.Field {
			set[k] = v
		}
	}

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{id.Field: docID}, bson.M{"$set": set})
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	if res.MatchedCount == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}

type aggregateRow struct {
	Avg   float64 `bson:"avg"`
	Count int64   `bson:"count"`
}

// Aggregate runs $match + $group computing $avg of field and the document count.
func (s *Store) Aggregate(ctx context.Context, collection string, f filter.Expression, field string) (db.Aggregation, error) {
	cur, err := s.db.Collection(collection).Aggregate(ctx, aggregatePipeline(f, field))
	if err != nil {
		return db.Aggregation{}, &db.Error{Op: db.OpAggregate, Err: err}
	}

	var rows []aggregateRow
	if err := cur.All(ctx, &rows); err != nil {
		return db.Aggregation{}, &db.Error{Op: db.OpAggregate, Err: fmt.Errorf("decode: %w", err)}
	}
	if len(rows) == 0 {
		return db.Aggregation{}, nil
	}
	return db.Aggregation{Average: rows[0].Avg, Count: int(rows[0].Count)}, nil
}

func aggregatePipeline(f filter.Expression, field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: toBSON(f)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$" + field}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}
