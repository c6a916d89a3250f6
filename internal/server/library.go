package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"
	"go.uber.org/zap"

	"mcpdemo/internal/library"
)

const (
	jsonMIMEType = "application/json"

	categoryURITemplate = "library://category/{category}"
)

var categoryTemplate = uritemplate.MustNew(categoryURITemplate)

// categoryAliases are fixed category URIs served next to the template
var categoryAliases = []struct {
	slug     string
	category string
}{
	{slug: "computer-science", category: "Computer Science"},
	{slug: "software-engineering", category: "Software Engineering"},
	{slug: "database-systems", category: "Database Systems"},
}

// NewLibrary creates the server exposing the library catalog as resources
func NewLibrary(views *library.Views, logger *zap.Logger) *mcp.Server {
	s := newServer(LibraryName, LibraryVersion, logger)

	static := func(uri, name, description string, view func() any) {
		s.AddResource(&mcp.Resource{
			URI:         uri,
			Name:        name,
			Description: description,
			MIMEType:    jsonMIMEType,
		}, jsonResource(func(*mcp.ReadResourceRequest) (any, error) {
			return view(), nil
		}))
	}

	static("library://catalog", "catalog",
		"Returns the complete library catalog with all books and their detailed information.",
		func() any { return views.Catalog() })
	static("library://available", "available",
		"Returns only books that are currently available for checkout.",
		func() any { return views.Available() })
	static("library://members", "members",
		"Returns information about library members and their current checkouts.",
		func() any { return views.Members() })
	static("library://overdue", "overdue",
		"Returns information about overdue books and members.",
		func() any { return views.Overdue() })
	static("library://stats", "stats",
		"Returns comprehensive library statistics and analytics.",
		func() any { return views.Stats() })

	for _, alias := range categoryAliases {
		category := alias.category
		static("library://category/"+alias.slug, alias.slug,
			fmt.Sprintf("Returns books in %s category.", category),
			func() any { return views.ByCategory(category) })
	}

	s.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: categoryURITemplate,
		Name:        "category",
		Description: fmt.Sprintf("Returns books filtered by category, ignoring case. Known categories: %q.", views.Categories()),
		MIMEType:    jsonMIMEType,
	}, jsonResource(func(req *mcp.ReadResourceRequest) (any, error) {
		values := categoryTemplate.Match(req.Params.URI)
		if values == nil {
			return nil, fmt.Errorf("uri %q does not name a category", req.Params.URI)
		}
		return views.ByCategory(values.Get("category").String()), nil
	}))

	return s
}

// jsonResource renders the view as indented JSON. Failures are reported
// inside the document as {"error": message} and never fail the read.
func jsonResource(view func(req *mcp.ReadResourceRequest) (any, error)) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		text := func() (text string) {
			defer func() {
				if r := recover(); r != nil {
					text = errorDocument(fmt.Errorf("%v", r))
				}
			}()
			return document(view(req))
		}()

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, MIMEType: jsonMIMEType, Text: text},
			},
		}, nil
	}
}

func document(v any, err error) string {
	if err != nil {
		return errorDocument(err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorDocument(err)
	}
	return string(b)
}

func errorDocument(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}
