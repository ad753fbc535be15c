package mongo

import "go.mongodb.org/mongo-driver/mongo"

// NewStoreForTest creates a Store over an already connected client (test-only).
func NewStoreForTest(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}
