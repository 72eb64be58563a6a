package usecase

import (
	"context"
	"main/utils"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// newTestDB connects to a local MongoDB and hands back an isolated test
// database. Tests that need the backend skip when none is reachable.
func newTestDB(t *testing.T) (*mongo.Database, func()) {
	t.Helper()

	uri := utils.GetEnvAsString("TEST_MONGO_URI", "mongodb://localhost:27017")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongodb not available: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("mongodb not available: %v", err)
	}

	db := client.Database("opsboard_test")

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := db.Drop(ctx); err != nil {
			t.Logf("Warning: failed to drop test database: %v", err)
		}
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("Warning: failed to disconnect: %v", err)
		}
	}
	return db, cleanup
}
