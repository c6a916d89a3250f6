package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"mcpdemo/internal/models"
	"mcpdemo/internal/storage"
)

type chattersOutput struct {
	Chatters []models.Chatter `json:"chatters"`
}

// NewCommunity creates the server ranking community members by message count
func NewCommunity(store storage.CommunityStore, logger *zap.Logger) *mcp.Server {
	s := newServer(CommunityName, DefaultVersion, logger)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_top_chatters",
		Description: "Retrieve the top chatters sorted by number of messages.",
	}, handle(func(ctx context.Context, _ noInput) (chattersOutput, error) {
		rows, err := store.TopChatters(ctx)
		return chattersOutput{Chatters: rows}, err
	}))

	return s
}
