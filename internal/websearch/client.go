// Package websearch queries the DuckDuckGo instant-answer API.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mohameodo/nova-v5/internal/model"
)

type ddgIcon struct {
	URL string `json:"URL"`
}

type ddgTopic struct {
	Text     string  `json:"Text"`
	FirstURL string  `json:"FirstURL"`
	Icon     ddgIcon `json:"Icon"`
}

type ddgImage struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Image string `json:"image"`
}

type ddgResponse struct {
	Heading       string     `json:"Heading"`
	Abstract      string     `json:"Abstract"`
	AbstractURL   string     `json:"AbstractURL"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
	Results       []ddgTopic `json:"Results"`
	Images        []ddgImage `json:"Images"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Search runs an instant-answer query and flattens the abstract,
// related topics, plain results and image results into one ranked
// list, deduplicated by link. An empty result set is an error so the
// caller can tell the user to try different keywords.
func (c *Client) Search(ctx context.Context, query string, searchType model.SearchType) ([]model.SearchResult, error) {
	params := url.Values{}
	params.Set("q", strings.TrimSpace(query))
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("no_redirect", "1")
	params.Set("kl", "wt-wt")
	params.Set("t", "nova")

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewProviderError("search request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, model.NewProviderError(fmt.Sprintf("search API error: %s", resp.Status), nil)
	}

	var data ddgResponse
	if err = json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, model.NewProviderError("malformed search response", err)
	}

	results := flattenResults(data)
	if searchType != model.SearchTypeAll {
		filtered := results[:0]
		for _, r := range results {
			if r.Type == searchType {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}
	if len(results) == 0 {
		return nil, model.NewInputError("No results found for %q. Try different keywords.", query)
	}
	return results, nil
}

func flattenResults(data ddgResponse) []model.SearchResult {
	results := make([]model.SearchResult, 0)

	if data.Abstract != "" {
		title := data.Heading
		if title == "" {
			title = "Main Result"
		}
		results = append(
			results, model.SearchResult{
				Title:   title,
				Link:    data.AbstractURL,
				Snippet: data.Abstract,
				Type:    model.SearchTypeText,
			},
		)
	}

	for _, topic := range data.RelatedTopics {
		title := topic.FirstURL
		if i := strings.Index(topic.Text, " - "); i > 0 {
			title = topic.Text[:i]
		} else if topic.Text != "" {
			title = topic.Text
		}
		results = append(
			results, model.SearchResult{
				Title:   title,
				Link:    topic.FirstURL,
				Snippet: topic.Text,
				Image:   topic.Icon.URL,
				Type:    model.SearchTypeText,
			},
		)
	}

	for _, r := range data.Results {
		resultType := model.SearchTypeText
		if strings.Contains(r.FirstURL, "youtube.com") {
			resultType = model.SearchTypeVideo
		}
		title := r.Text
		if title == "" {
			title = r.FirstURL
		}
		results = append(
			results, model.SearchResult{
				Title:   title,
				Link:    r.FirstURL,
				Snippet: r.Text,
				Image:   r.Icon.URL,
				Type:    resultType,
			},
		)
	}

	for _, img := range data.Images {
		link := img.URL
		if link == "" {
			link = img.Image
		}
		image := img.Image
		if image == "" {
			image = img.URL
		}
		results = append(
			results, model.SearchResult{
				Title:   img.Title,
				Link:    link,
				Snippet: img.Title,
				Image:   image,
				Type:    model.SearchTypeImage,
			},
		)
	}

	seen := make(map[string]struct{}, len(results))
	deduped := results[:0]
	for _, r := range results {
		if r.Link == "" || r.Title == "" {
			continue
		}
		if _, ok := seen[r.Link]; ok {
			continue
		}
		seen[r.Link] = struct{}{}
		deduped = append(deduped, r)
	}
	return deduped
}
