package ch

import (
	"context"
	"crypto/tls"
	"fmt"

	"mcpdemo/internal/models"
	"mcpdemo/internal/storage"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type CommunityDB struct {
	conn clickhouse.Conn
}

var _ storage.CommunityStore = (*CommunityDB)(nil)

// NewCommunityDB creates a new ClickHouse connection for the community counts
func NewCommunityDB(host string, port int, database, user, password string, useTLS bool) (*CommunityDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &CommunityDB{conn: conn}, nil
}

// EnsureSchema creates the chatters table when it is missing.
// ReplacingMergeTree keeps the last written count per name.
func (db *CommunityDB) EnsureSchema(ctx context.Context) error {
	err := db.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chatters (
			name String,
			messages UInt64
		) ENGINE = ReplacingMergeTree()
		ORDER BY name
	`)
	if err != nil {
		return fmt.Errorf("failed to create chatters table: %w", err)
	}
	return nil
}

// Seed writes the given counts in one batch
func (db *CommunityDB) Seed(ctx context.Context, chatters []models.Chatter) error {
	batch, err := db.conn.PrepareBatch(ctx, `INSERT INTO chatters (name, messages)`)
	if err != nil {
		return fmt.Errorf("failed to prepare chatters batch: %w", err)
	}
	for _, c := range chatters {
		if c.Messages < 0 {
			batch.Abort()
			return fmt.Errorf("chatter %q has negative message count %d", c.Name, c.Messages)
		}
		if err := batch.Append(c.Name, uint64(c.Messages)); err != nil {
			batch.Abort()
			return fmt.Errorf("failed to append chatter %q: %w", c.Name, err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send chatters batch: %w", err)
	}
	return nil
}

// TopChatters returns every chatter sorted by number of messages
func (db *CommunityDB) TopChatters(ctx context.Context) ([]models.Chatter, error) {
	rows, err := db.conn.Query(ctx, `SELECT name, messages FROM chatters FINAL ORDER BY messages DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list top chatters: %w", err)
	}
	defer rows.Close()

	chatters := make([]models.Chatter, 0)
	for rows.Next() {
		var (
			name     string
			messages uint64
		)
		if err := rows.Scan(&name, &messages); err != nil {
			return nil, fmt.Errorf("failed to scan chatter: %w", err)
		}
		chatters = append(chatters, models.Chatter{Name: name, Messages: int64(messages)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chatters: %w", err)
	}
	return chatters, nil
}

// Close closes the database connection
func (db *CommunityDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
