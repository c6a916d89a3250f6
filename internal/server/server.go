// Package server builds the MCP servers exposed by mcpdemo. Each constructor
// returns a ready *mcp.Server; choosing a transport is left to the caller.
package server

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Implementation names reported to clients during initialization.
const (
	RandomNameName   = "Random Name"
	RandomNameV2Name = "Random Name Tester 2.0"
	PromptName       = "Prompt Tester"
	LibraryName      = "Library Management System"
	CommunityName    = "Sqlite Server"
	WorldName        = "World Database"

	LibraryVersion = "1.0.0"
	DefaultVersion = "0.1.0"
)

func newServer(name, version string, logger *zap.Logger) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)
	s.AddReceivingMiddleware(logRequests(logger.With(zap.String("server", name))))
	return s
}

// handle adapts a plain query function to a typed tool handler.
// A returned error becomes an isError tool result.
func handle[In, Out any](run func(ctx context.Context, in In) (Out, error)) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		out, err := run(ctx, in)
		return nil, out, err
	}
}

// requestTarget names the tool, resource or prompt a request addresses
func requestTarget(req mcp.Request) (string, bool) {
	switch p := req.GetParams().(type) {
	case *mcp.CallToolParamsRaw:
		return p.Name, true
	case *mcp.ReadResourceParams:
		return p.URI, true
	case *mcp.GetPromptParams:
		return p.Name, true
	}
	return "", false
}

// logRequests logs every tool call, resource read and prompt request
func logRequests(logger *zap.Logger) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			target, ok := requestTarget(req)
			if !ok {
				return next(ctx, method, req)
			}

			start := time.Now()
			res, err := next(ctx, method, req)
			fields := []zap.Field{
				zap.String("method", method),
				zap.String("target", target),
				zap.Duration("duration", time.Since(start)),
			}

			if err != nil {
				logger.Warn("Request failed", append(fields, zap.Error(err))...)
				return res, err
			}
			if r, ok := res.(*mcp.CallToolResult); ok && r.IsError {
				logger.Warn("Tool returned an error", append(fields, zap.String("error", toolErrorText(r)))...)
				return res, err
			}

			logger.Info("Request served", fields...)
			return res, err
		}
	}
}

func toolErrorText(r *mcp.CallToolResult) string {
	for _, c := range r.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
