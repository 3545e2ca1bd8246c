// Package movie wraps the TMDB search and detail endpoints.
package movie

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mohameodo/nova-v5/internal/model"
)

const maxResults = 12

type tmdbMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int   `json:"genre_ids"`
}

type tmdbSearchResponse struct {
	Results []tmdbMovie `json:"results"`
}

type tmdbGenre struct {
	Name string `json:"name"`
}

type tmdbCredit struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type tmdbCredits struct {
	Cast []tmdbCredit `json:"cast"`
	Crew []tmdbCredit `json:"crew"`
}

type tmdbDetailsResponse struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	Overview     string      `json:"overview"`
	ReleaseDate  string      `json:"release_date"`
	VoteAverage  float64     `json:"vote_average"`
	Runtime      int         `json:"runtime"`
	Genres       []tmdbGenre `json:"genres"`
	Credits      tmdbCredits `json:"credits"`
	PosterPath   string      `json:"poster_path"`
	BackdropPath string      `json:"backdrop_path"`
}

type tmdbError struct {
	StatusMessage string `json:"status_message"`
}

type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	httpClient   *http.Client
}

func NewClient(baseURL, imageBaseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:      baseURL,
		imageBaseURL: imageBaseURL,
		apiKey:       apiKey,
		httpClient:   httpClient,
	}
}

// Search returns up to twelve rated movies with posters matching the
// query, poster paths expanded to full image URLs.
func (c *Client) Search(ctx context.Context, query string) ([]model.Movie, error) {
	endpoint := fmt.Sprintf(
		"/search/movie?query=%s&include_adult=false&language=en-US&page=1&region=US",
		url.QueryEscape(query),
	)
	var data tmdbSearchResponse
	if err := c.getJSON(ctx, endpoint, &data); err != nil {
		return nil, err
	}

	movies := make([]model.Movie, 0, maxResults)
	for _, m := range data.Results {
		if m.PosterPath == "" || m.VoteAverage <= 0 {
			continue
		}
		movies = append(
			movies, model.Movie{
				ID:          m.ID,
				Title:       m.Title,
				PosterPath:  c.imageBaseURL + m.PosterPath,
				Overview:    m.Overview,
				ReleaseDate: m.ReleaseDate,
				VoteAverage: m.VoteAverage,
				GenreIDs:    m.GenreIDs,
			},
		)
		if len(movies) == maxResults {
			break
		}
	}
	return movies, nil
}

// Details returns one movie with credits attached.
func (c *Client) Details(ctx context.Context, movieID int) (*model.MovieDetails, error) {
	endpoint := fmt.Sprintf("/movie/%d?append_to_response=credits,similar,videos", movieID)
	var data tmdbDetailsResponse
	if err := c.getJSON(ctx, endpoint, &data); err != nil {
		return nil, err
	}

	genres := make([]string, 0, len(data.Genres))
	for _, g := range data.Genres {
		genres = append(genres, g.Name)
	}
	cast := make([]model.MovieCredit, 0, len(data.Credits.Cast))
	for _, member := range data.Credits.Cast {
		cast = append(cast, model.MovieCredit{Name: member.Name})
	}
	crew := make([]model.MovieCredit, 0, len(data.Credits.Crew))
	for _, member := range data.Credits.Crew {
		crew = append(crew, model.MovieCredit{Name: member.Name, Job: member.Job})
	}

	details := &model.MovieDetails{
		ID:          data.ID,
		Title:       data.Title,
		Overview:    data.Overview,
		ReleaseDate: data.ReleaseDate,
		VoteAverage: data.VoteAverage,
		Runtime:     data.Runtime,
		Genres:      genres,
		Cast:        cast,
		Crew:        crew,
	}
	if data.PosterPath != "" {
		details.PosterPath = c.imageBaseURL + data.PosterPath
	}
	if data.BackdropPath != "" {
		details.BackdropPath = c.imageBaseURL + data.BackdropPath
	}
	return details, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build movie request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewProviderError("movie request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var tmdbErr tmdbError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&tmdbErr); decodeErr == nil && tmdbErr.StatusMessage != "" {
			return model.NewProviderError(tmdbErr.StatusMessage, nil)
		}
		return model.NewProviderError("Failed to fetch from TMDB", nil)
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return model.NewProviderError("malformed movie response", err)
	}
	return nil
}
