package server

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mcpdemo/internal/library"
)

// a clock three and a half days after the default checkout's due date
var libraryNow = time.Date(2024, 2, 24, 2, 15, 0, 0, time.UTC)

func newLibrary(t *testing.T) *mcp.ClientSession {
	t.Helper()
	views := library.NewViews(library.DefaultDataset(), func() time.Time { return libraryNow })
	return connect(t, NewLibrary(views, zap.NewNop()))
}

func readJSON(t *testing.T, cs *mcp.ClientSession, uri string, out any) {
	t.Helper()
	res, err := cs.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: uri})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, uri, res.Contents[0].URI)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), out))
}

func TestLibrary_ListsResources(t *testing.T) {
	cs := newLibrary(t)
	ctx := context.Background()

	assert.Equal(t, LibraryName, cs.InitializeResult().ServerInfo.Name)
	assert.Equal(t, LibraryVersion, cs.InitializeResult().ServerInfo.Version)

	resources, err := cs.ListResources(ctx, nil)
	require.NoError(t, err)
	var uris []string
	for _, r := range resources.Resources {
		uris = append(uris, r.URI)
	}
	assert.ElementsMatch(t, []string{
		"library://catalog",
		"library://available",
		"library://members",
		"library://overdue",
		"library://stats",
		"library://category/computer-science",
		"library://category/software-engineering",
		"library://category/database-systems",
	}, uris)

	templates, err := cs.ListResourceTemplates(ctx, nil)
	require.NoError(t, err)
	require.Len(t, templates.ResourceTemplates, 1)
	assert.Equal(t, "library://category/{category}", templates.ResourceTemplates[0].URITemplate)
}

func TestLibrary_Catalog(t *testing.T) {
	cs := newLibrary(t)

	var catalog library.Catalog
	readJSON(t, cs, "library://catalog", &catalog)
	assert.Equal(t, 4, catalog.TotalBooks)
	assert.Len(t, catalog.Books, 4)
	assert.True(t, catalog.LastUpdated.Equal(libraryNow))

	var available library.Availability
	readJSON(t, cs, "library://available", &available)
	assert.Equal(t, 3, available.AvailableCount)
	assert.Equal(t, "75.0%", available.AvailabilityRate)
}

func TestLibrary_Category(t *testing.T) {
	cs := newLibrary(t)

	testCases := []struct {
		name         string
		uri          string
		wantCategory string
		wantID       string
	}{
		{name: "template lower case", uri: "library://category/design", wantCategory: "design", wantID: "B003"},
		{name: "template percent-encoded", uri: "library://category/Computer%20Science", wantCategory: "Computer Science", wantID: "B001"},
		{name: "alias", uri: "library://category/database-systems", wantCategory: "Database Systems", wantID: "B004"},
		{name: "alias software engineering", uri: "library://category/software-engineering", wantCategory: "Software Engineering", wantID: "B002"},
		{name: "unknown category", uri: "library://category/poetry", wantCategory: "poetry"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var result library.CategoryBooks
			readJSON(t, cs, tc.uri, &result)
			assert.Equal(t, tc.wantCategory, result.Category)
			if tc.wantID == "" {
				assert.Zero(t, result.BookCount)
				assert.Empty(t, result.Books)
				return
			}
			assert.Equal(t, 1, result.BookCount)
			require.Len(t, result.Books, 1)
			assert.Equal(t, tc.wantID, result.Books[0].ID)
		})
	}
}

func TestLibrary_MembersAndOverdue(t *testing.T) {
	cs := newLibrary(t)

	var directory library.MemberDirectory
	readJSON(t, cs, "library://members", &directory)
	require.Len(t, directory.Members, 2)
	require.Len(t, directory.Members[0].CurrentCheckouts, 1)
	assert.True(t, directory.Members[0].CurrentCheckouts[0].IsOverdue)

	var report library.OverdueReport
	readJSON(t, cs, "library://overdue", &report)
	assert.Equal(t, 1, report.OverdueCount)
	require.Len(t, report.OverdueItems, 1)
	assert.Equal(t, 3, report.OverdueItems[0].DaysOverdue)
	assert.InDelta(t, 1.50, report.OverdueItems[0].FineAmount, 1e-9)
	assert.InDelta(t, 1.50, report.TotalFineAmount, 1e-9)

	var stats library.Statistics
	readJSON(t, cs, "library://stats", &stats)
	assert.Equal(t, "61.1%", stats.CollectionStats.UtilizationRate)
	assert.Equal(t, 1, stats.CirculationStats.ActiveReservations)
}

func TestLibrary_UnknownResource(t *testing.T) {
	cs := newLibrary(t)

	_, err := cs.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "library://shelves"})
	assert.Error(t, err)
}

func TestJSONResource_ErrorsBecomeDocuments(t *testing.T) {
	testCases := []struct {
		name string
		view func(*mcp.ReadResourceRequest) (any, error)
		want string
	}{
		{
			name: "view error",
			view: func(*mcp.ReadResourceRequest) (any, error) { return nil, errors.New("catalog unavailable") },
			want: "catalog unavailable",
		},
		{
			name: "unencodable value",
			view: func(*mcp.ReadResourceRequest) (any, error) { return map[string]any{"bad": make(chan int)}, nil },
			want: "json: unsupported type: chan int",
		},
		{
			name: "panic",
			view: func(*mcp.ReadResourceRequest) (any, error) { panic("boom") },
			want: "boom",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := jsonResource(tc.view)
			req := &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "library://catalog"}}

			res, err := handler(context.Background(), req)
			require.NoError(t, err)
			require.Len(t, res.Contents, 1)

			var doc map[string]string
			require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &doc))
			assert.Equal(t, tc.want, doc["error"])
		})
	}
}
