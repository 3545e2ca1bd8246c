// Package news wraps the NewsAPI headline endpoints.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mohameodo/nova-v5/internal/model"
)

const pageSize = "4"

type newsResponse struct {
	Articles []model.NewsArticle `json:"articles"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Headlines returns a small page of articles: a topical search when a
// query is given, country top headlines otherwise.
func (c *Client) Headlines(ctx context.Context, query, country string) ([]model.NewsArticle, error) {
	var endpoint string
	params := url.Values{}
	params.Set("pageSize", pageSize)
	params.Set("apiKey", c.apiKey)
	if query != "" {
		endpoint = "/everything"
		params.Set("q", query)
		params.Set("sortBy", "publishedAt")
		params.Set("language", "en")
	} else {
		endpoint = "/top-headlines"
		params.Set("country", country)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build news request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewProviderError("news request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, model.NewProviderError("Failed to fetch news", nil)
	}

	var data newsResponse
	if err = json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, model.NewProviderError("malformed news response", err)
	}
	return data.Articles, nil
}
