// Package weather wraps the weatherapi.com forecast and geo-search
// endpoints.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mohameodo/nova-v5/internal/model"
)

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

// Forecast returns current conditions plus a three day forecast.
func (c *Client) Forecast(ctx context.Context, location string) (*model.WeatherData, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", location)
	params.Set("days", "3")
	params.Set("aqi", "no")

	var data model.WeatherData
	if err := c.getJSON(ctx, "/forecast.json", params, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// LocateByCoords reverse-geocodes coordinates into the nearest
// location name, used to pin a session's ambient location.
func (c *Client) LocateByCoords(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", fmt.Sprintf("%f,%f", lat, lon))

	var matches []model.WeatherLocation
	if err := c.getJSON(ctx, "/search.json", params, &matches); err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", model.NewProviderError("no location found for coordinates", nil)
	}
	return matches[0].Name, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil,
	)
	if err != nil {
		return fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewProviderError("weather request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.NewProviderError("Failed to fetch weather data", nil)
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return model.NewProviderError("malformed weather response", err)
	}
	return nil
}
