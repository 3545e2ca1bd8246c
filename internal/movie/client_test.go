package movie

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohameodo/nova-v5/internal/model"
)

const testImageBase = "https://image.example.com/t/p/w500"

func TestSearchFiltersUnusableResults(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/search/movie", r.URL.Path)
				assert.Equal(t, "Bearer tmdb-token", r.Header.Get("Authorization"))
				assert.Equal(t, "blade runner", r.URL.Query().Get("query"))
				assert.Equal(t, "false", r.URL.Query().Get("include_adult"))

				require.NoError(
					t, json.NewEncoder(w).Encode(
						tmdbSearchResponse{
							Results: []tmdbMovie{
								{ID: 1, Title: "Blade Runner", PosterPath: "/br.jpg", VoteAverage: 8.1},
								{ID: 2, Title: "No Poster", PosterPath: "", VoteAverage: 7.0},
								{ID: 3, Title: "Unrated", PosterPath: "/un.jpg", VoteAverage: 0},
								{ID: 4, Title: "Blade Runner 2049", PosterPath: "/br2.jpg", VoteAverage: 8.0},
							},
						},
					),
				)
			},
		),
	)
	defer srv.Close()

	c := NewClient(srv.URL, testImageBase, "tmdb-token", srv.Client())
	movies, err := c.Search(context.Background(), "blade runner")
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, 1, movies[0].ID)
	assert.Equal(t, testImageBase+"/br.jpg", movies[0].PosterPath)
	assert.Equal(t, "Blade Runner 2049", movies[1].Title)
}

func TestSearchCapsResultCount(t *testing.T) {
	results := make([]tmdbMovie, 0, 20)
	for i := 0; i < 20; i++ {
		results = append(
			results, tmdbMovie{
				ID:          i + 1,
				Title:       fmt.Sprintf("Movie %d", i+1),
				PosterPath:  "/p.jpg",
				VoteAverage: 6.5,
			},
		)
	}
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewEncoder(w).Encode(tmdbSearchResponse{Results: results}))
			},
		),
	)
	defer srv.Close()

	c := NewClient(srv.URL, testImageBase, "tmdb-token", srv.Client())
	movies, err := c.Search(context.Background(), "movie")
	require.NoError(t, err)
	assert.Len(t, movies, maxResults)
}

func TestDetails(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/movie/603", r.URL.Path)
				assert.Equal(t, "credits,similar,videos", r.URL.Query().Get("append_to_response"))

				require.NoError(
					t, json.NewEncoder(w).Encode(
						tmdbDetailsResponse{
							ID:          603,
							Title:       "The Matrix",
							ReleaseDate: "1999-03-31",
							VoteAverage: 8.2,
							Runtime:     136,
							Genres:      []tmdbGenre{{Name: "Action"}, {Name: "Science Fiction"}},
							Credits: tmdbCredits{
								Cast: []tmdbCredit{{Name: "Keanu Reeves"}},
								Crew: []tmdbCredit{{Name: "Lana Wachowski", Job: "Director"}},
							},
							PosterPath: "/matrix.jpg",
						},
					),
				)
			},
		),
	)
	defer srv.Close()

	c := NewClient(srv.URL, testImageBase, "tmdb-token", srv.Client())
	details, err := c.Details(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", details.Title)
	assert.Equal(t, []string{"Action", "Science Fiction"}, details.Genres)
	assert.Equal(t, testImageBase+"/matrix.jpg", details.PosterPath)
	assert.Empty(t, details.BackdropPath)
	require.Len(t, details.Crew, 1)
	assert.Equal(t, "Director", details.Crew[0].Job)
}

func TestDetailsAPIError(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				require.NoError(
					t, json.NewEncoder(w).Encode(
						tmdbError{StatusMessage: "The resource you requested could not be found."},
					),
				)
			},
		),
	)
	defer srv.Close()

	c := NewClient(srv.URL, testImageBase, "tmdb-token", srv.Client())
	_, err := c.Details(context.Background(), 999999)
	require.Error(t, err)
	assert.True(t, model.IsProviderError(err))
	assert.Contains(t, err.Error(), "could not be found")
}
