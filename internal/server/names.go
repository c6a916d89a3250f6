package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"mcpdemo/internal/names"
)

type randomNameInput struct {
	Names []string `json:"names,omitempty" jsonschema:"names to choose from; omit to use the built-in list"`
}

// NewRandomName creates the server picking from the classic name list
func NewRandomName(picker *names.Picker, logger *zap.Logger) *mcp.Server {
	return newRandomName(RandomNameName, picker, logger)
}

// NewRandomNameV2 creates the server picking from the extended name list
func NewRandomNameV2(picker *names.Picker, logger *zap.Logger) *mcp.Server {
	return newRandomName(RandomNameV2Name, picker, logger)
}

func newRandomName(name string, picker *names.Picker, logger *zap.Logger) *mcp.Server {
	s := newServer(name, DefaultVersion, logger)

	// The picked name is returned as plain text, without structured output.
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_random_name",
		Description: "Gets a random person's name. Pass names to choose from, or omit them to use a predefined list.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in randomNameInput) (*mcp.CallToolResult, any, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: picker.Pick(in.Names)}},
		}, nil, nil
	})

	return s
}
