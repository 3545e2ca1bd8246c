package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohameodo/nova-v5/internal/model"
)

func newSearchServer(t *testing.T, data ddgResponse, gotQuery *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				if gotQuery != nil {
					*gotQuery = r.URL.Query().Get("q")
				}
				assert.Equal(t, "json", r.URL.Query().Get("format"))
				assert.Equal(t, "1", r.URL.Query().Get("no_html"))
				require.NoError(t, json.NewEncoder(w).Encode(data))
			},
		),
	)
}

func TestSearchFlattensAllSections(t *testing.T) {
	var gotQuery string
	srv := newSearchServer(
		t, ddgResponse{
			Heading:     "Go",
			Abstract:    "Go is a programming language.",
			AbstractURL: "https://go.dev",
			RelatedTopics: []ddgTopic{
				{Text: "Gopher - the Go mascot", FirstURL: "https://go.dev/gopher"},
			},
			Results: []ddgTopic{
				{Text: "Go tutorial", FirstURL: "https://youtube.com/watch?v=1"},
			},
			Images: []ddgImage{
				{Title: "Go logo", URL: "https://go.dev/logo", Image: "https://go.dev/logo.png"},
			},
		}, &gotQuery,
	)
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	results, err := c.Search(context.Background(), "  golang  ", model.SearchTypeAll)
	require.NoError(t, err)
	assert.Equal(t, "golang", gotQuery)
	require.Len(t, results, 4)

	assert.Equal(t, "Go", results[0].Title)
	assert.Equal(t, "https://go.dev", results[0].Link)
	assert.Equal(t, model.SearchTypeText, results[0].Type)

	assert.Equal(t, "Gopher", results[1].Title)

	assert.Equal(t, model.SearchTypeVideo, results[2].Type)

	assert.Equal(t, model.SearchTypeImage, results[3].Type)
	assert.Equal(t, "https://go.dev/logo.png", results[3].Image)
}

func TestSearchHeadingFallback(t *testing.T) {
	srv := newSearchServer(
		t, ddgResponse{
			Abstract:    "Some summary.",
			AbstractURL: "https://example.com",
		}, nil,
	)
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	results, err := c.Search(context.Background(), "thing", model.SearchTypeAll)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Main Result", results[0].Title)
}

func TestSearchTypeFilter(t *testing.T) {
	srv := newSearchServer(
		t, ddgResponse{
			Abstract:    "text hit",
			Heading:     "Text",
			AbstractURL: "https://example.com/text",
			Images: []ddgImage{
				{Title: "picture", Image: "https://example.com/pic.png"},
			},
		}, nil,
	)
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	results, err := c.Search(context.Background(), "thing", model.SearchTypeImage)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.SearchTypeImage, results[0].Type)
	assert.Equal(t, "https://example.com/pic.png", results[0].Link)
}

func TestSearchDeduplicatesByLink(t *testing.T) {
	srv := newSearchServer(
		t, ddgResponse{
			RelatedTopics: []ddgTopic{
				{Text: "First - one", FirstURL: "https://example.com/a"},
				{Text: "Second - two", FirstURL: "https://example.com/a"},
				{Text: "Linkless - nowhere", FirstURL: ""},
			},
		}, nil,
	)
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	results, err := c.Search(context.Background(), "thing", model.SearchTypeAll)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "First", results[0].Title)
}

func TestSearchEmptyResults(t *testing.T) {
	srv := newSearchServer(t, ddgResponse{}, nil)
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.Search(context.Background(), "zxqv", model.SearchTypeAll)
	require.Error(t, err)
	assert.True(t, model.IsInputError(err))
	assert.Contains(t, err.Error(), `No results found for "zxqv"`)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		),
	)
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.Search(context.Background(), "thing", model.SearchTypeAll)
	require.Error(t, err)
	assert.True(t, model.IsProviderError(err))
}
