// Package postgres implements db.Store on a PostgreSQL JSONB table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/kailas-cloud/vetdir/internal/db"
	"github.com/kailas-cloud/vetdir/internal/domain/filter"
	"github.com/kailas-cloud/vetdir/internal/domain/id"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const createTable = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	body JSONB NOT NULL,
	PRIMARY KEY (collection, id)
)`

// Config holds connection parameters for a PostgreSQL store.
type Config struct {
	DSN            string
	ConnectTimeout time.Duration
}

// Store keeps every collection in one documents table keyed by (collection, id).
type Store struct {
	db *sql.DB
}

// NewStore opens the pool, pings it and ensures the documents table exists.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("dsn is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	sqlDB, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, &db.Error{Op: db.OpPing, Err: err}
	}

	s := &Store{db: sqlDB}
	if err := s.ensureTable(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return &db.Error{Op: db.OpConnect, Err: fmt.Errorf("create documents table: %w", err)}
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// CreateDocument inserts rec as a JSONB body under a generated identifier.
func (s *Store) CreateDocument(ctx context.Context, collection string, rec db.Record) (string, error) {
	body, err := encodeBody(rec)
	if err != nil {
		return "", &db.Error{Op: db.OpInsert, Err: err}
	}

	docID := id.New().Hex()
	const q = `INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)`
	if _, err := s.db.ExecContext(ctx, q, collection, docID, body); err != nil {
		return "", &db.Error{Op: db.OpInsert, Err: err}
	}
	return docID, nil
}

// GetDocuments selects matching rows, capped at limit.
func (s *Store) GetDocuments(ctx context.Context, collection string, f filter.Expression, limit int) ([]db.Record, error) {
	w := newWhere(collection)
	cond := w.build(f)

	q := "SELECT id, body FROM documents WHERE collection = $1 AND " + cond
	if limit > 0 {
		q += " LIMIT " + w.arg(limit)
	}

	rows, err := s.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	defer func() { _ = rows.Close() }()

	out := make([]db.Record, 0)
	for rows.Next() {
		var rawID string
		var body []byte
		if err := rows.Scan(&rawID, &body); err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: fmt.Errorf("scan: %w", err)}
		}
		rec, err := decodeBody(rawID, body)
		if err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: err}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	return out, nil
}

// UpdateDocument merges fields into the JSONB body.
func (s *Store) UpdateDocument(ctx context.Context, collection string, docID id.ID, fields db.Record) error {
	patch, err := encodeBody(fields)
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}

	const q = `UPDATE documents SET body = body || $3::jsonb WHERE collection = $1 AND id = $2`
	res, err := s.db.ExecContext(ctx, q, collection, docID.Hex(), patch)
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	if n == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}

// Aggregate computes AVG and COUNT of a numeric body field over matching rows.
func (s *Store) Aggregate(ctx context.Context, collection string, f filter.Expression, field string) (db.Aggregation, error) {
	w := newWhere(collection)
	fieldArg := w.arg(field)
	cond := w.build(f)

	q := "SELECT COALESCE(AVG((body->>" + fieldArg + "::text)::float8), 0), COUNT(*) " +
		"FROM documents WHERE collection = $1 AND " + cond

	var agg db.Aggregation
	if err := s.db.QueryRowContext(ctx, q, w.args...).Scan(&agg.Average, &agg.Count); err != nil {
		return db.Aggregation{}, &db.Error{Op: db.OpAggregate, Err: err}
	}
	return agg, nil
}

func encodeBody(rec db.Record) ([]byte, error) {
	m := make(map[string]any, len(rec))
	for k, v := range rec {
		if k != id.Field {
			m[k] = v
		}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return data, nil
}

func decodeBody(rawID string, body []byte) (db.Record, error) {
	var rec db.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode body of %s: %w", rawID, err)
	}
	if rec == nil {
		rec = db.Record{}
	}
	if oid, err := id.Parse(rawID); err == nil {
		rec[id.Field] = oid
	} else {
		rec[id.Field] = rawID
	}
	return rec, nil
}
