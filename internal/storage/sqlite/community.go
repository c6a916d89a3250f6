package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"mcpdemo/internal/models"
	"mcpdemo/internal/storage"
)

// CommunityDB reads chat message counts from the community file
type CommunityDB struct {
	provider *Provider
}

var _ storage.CommunityStore = (*CommunityDB)(nil)

// NewCommunityDB creates a community store backed by the provider's community file
func NewCommunityDB(provider *Provider) *CommunityDB {
	return &CommunityDB{provider: provider}
}

// TopChatters returns every chatter sorted by number of messages
func (c *CommunityDB) TopChatters(ctx context.Context) ([]models.Chatter, error) {
	var chatters []models.Chatter
	err := c.provider.with(ctx, storage.Community, func(db *sqlx.DB) error {
		var err error
		chatters, err = projectRows[models.Chatter](ctx, db,
			`SELECT name, messages FROM chatters ORDER BY messages DESC`)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list top chatters: %w", err)
	}
	return chatters, nil
}

// Close is a no-op; handles are closed after every query
func (c *CommunityDB) Close() error {
	return nil
}
