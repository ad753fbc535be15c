package postgres

import "database/sql"

// NewStoreForTest creates a Store over the provided pool (test-only).
func NewStoreForTest(sqlDB *sql.DB) *Store {
	return &Store{db: sqlDB}
}
