package ch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clickhouseTC "github.com/testcontainers/testcontainers-go/modules/clickhouse"

	"mcpdemo/internal/models"
)

// setupTestDB creates a test ClickHouse instance using testcontainers
func setupTestDB(t *testing.T) (*CommunityDB, func()) {
	if testing.Short() {
		t.Skip("Skipping ClickHouse container test in short mode")
	}
	ctx := context.Background()

	clickhouseContainer, err := clickhouseTC.Run(ctx,
		"clickhouse/clickhouse-server:24.3.3.102-alpine",
		clickhouseTC.WithUsername("default"),
		clickhouseTC.WithPassword(""),
		clickhouseTC.WithDatabase("default"),
	)
	require.NoError(t, err, "Failed to start ClickHouse container")

	host, err := clickhouseContainer.Host(ctx)
	require.NoError(t, err)

	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	db, err := NewCommunityDB(host, port.Int(), "default", "default", "", false)
	require.NoError(t, err, "Failed to connect to ClickHouse")

	require.NoError(t, db.EnsureSchema(ctx), "Failed to create schema")

	cleanup := func() {
		db.Close()
		clickhouseContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestCommunityDB_TopChatters(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// Initially should be empty, not nil
	chatters, err := db.TopChatters(ctx)
	require.NoError(t, err)
	assert.NotNil(t, chatters)
	assert.Empty(t, chatters)

	err = db.Seed(ctx, []models.Chatter{
		{Name: "alice", Messages: 10},
		{Name: "bob", Messages: 250},
		{Name: "carol", Messages: 42},
	})
	require.NoError(t, err)

	chatters, err = db.TopChatters(ctx)
	require.NoError(t, err)
	require.Len(t, chatters, 3)
	assert.Equal(t, models.Chatter{Name: "bob", Messages: 250}, chatters[0])
	assert.Equal(t, "carol", chatters[1].Name)
	assert.Equal(t, "alice", chatters[2].Name)
}

func TestCommunityDB_SeedReplacesCounts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, db.Seed(ctx, []models.Chatter{{Name: "alice", Messages: 1}}))
	require.NoError(t, db.Seed(ctx, []models.Chatter{{Name: "alice", Messages: 7}}))

	chatters, err := db.TopChatters(ctx)
	require.NoError(t, err)
	require.Len(t, chatters, 1)
	assert.Equal(t, int64(7), chatters[0].Messages)
}

func TestCommunityDB_SeedRejectsNegativeCounts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.Seed(context.Background(), []models.Chatter{{Name: "mallory", Messages: -1}})
	assert.Error(t, err)
}
