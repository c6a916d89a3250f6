package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"mcpdemo/internal/prompts"
)

// NewPrompt creates the server offering the detailed-analysis prompt
func NewPrompt(logger *zap.Logger) *mcp.Server {
	s := newServer(PromptName, DefaultVersion, logger)

	s.AddPrompt(&mcp.Prompt{
		Name:        "get_prompt",
		Description: "Returns a prompt for the given topic which will do a detailed analysis on the topic.",
		Arguments: []*mcp.PromptArgument{
			{Name: "topic", Description: "The topic to analyze.", Required: true},
		},
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		topic, ok := req.Params.Arguments["topic"]
		if !ok {
			return nil, fmt.Errorf("missing required argument %q", "topic")
		}
		return &mcp.GetPromptResult{
			Description: "Detailed analysis of " + topic,
			Messages: []*mcp.PromptMessage{
				{Role: "user", Content: &mcp.TextContent{Text: prompts.Analysis(topic)}},
			},
		}, nil
	})

	return s
}
