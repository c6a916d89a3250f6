package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mcpdemo/internal/models"
	"mcpdemo/internal/storage/stubs"
)

func TestCommunity_TopChatters(t *testing.T) {
	db := stubs.NewMockCommunityDB()
	db.SetMessages("alice", 10)
	db.SetMessages("bob", 250)
	db.SetMessages("carol", 42)

	cs := connect(t, NewCommunity(db, zap.NewNop()))
	assert.Equal(t, CommunityName, cs.InitializeResult().ServerInfo.Name)
	assert.Equal(t, []string{"get_top_chatters"}, toolNames(t, cs))

	var out chattersOutput
	callTool(t, cs, "get_top_chatters", nil, &out)
	assert.Equal(t, []models.Chatter{
		{Name: "bob", Messages: 250},
		{Name: "carol", Messages: 42},
		{Name: "alice", Messages: 10},
	}, out.Chatters)
}

func TestCommunity_Empty(t *testing.T) {
	cs := connect(t, NewCommunity(stubs.NewMockCommunityDB(), zap.NewNop()))

	var out chattersOutput
	callTool(t, cs, "get_top_chatters", nil, &out)
	require.NotNil(t, out.Chatters)
	assert.Empty(t, out.Chatters)
}
