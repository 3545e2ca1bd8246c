package weather

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

func TestForecast(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/forecast.json", r.URL.Path)
				assert.Equal(t, "test-key", r.URL.Query().Get("key"))
				assert.Equal(t, "Tokyo", r.URL.Query().Get("q"))
				assert.Equal(t, "3", r.URL.Query().Get("days"))
				assert.Equal(t, "no", r.URL.Query().Get("aqi"))

				require.NoError(
					t, json.NewEncoder(w).Encode(
						model.WeatherData{
							Location: model.WeatherLocation{Name: "Tokyo", Country: "Japan"},
							Current: model.WeatherCurrent{
								TempC:     21,
								TempF:     69.8,
								Condition: model.WeatherCondition{Text: "Partly cloudy"},
								Humidity:  64,
							},
						},
					),
				)
			},
		),
	)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", srv.Client())
	data, err := c.Forecast(context.Background(), "Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", data.Location.Name)
	assert.Equal(t, "Partly cloudy", data.Current.Condition.Text)
	assert.Equal(t, 64, data.Current.Humidity)
}

func TestForecastServerError(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
		),
	)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", srv.Client())
	_, err := c.Forecast(context.Background(), "Nowhere")
	require.Error(t, err)
	assert.True(t, model.IsProviderError(err))
	assert.Contains(t, err.Error(), "Failed to fetch weather data")
}

func TestLocateByCoords(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/search.json", r.URL.Path)
				assert.Equal(t, "35.680000,139.770000", r.URL.Query().Get("q"))

				require.NoError(
					t, json.NewEncoder(w).Encode(
						[]model.WeatherLocation{
							{Name: "Tokyo", Country: "Japan"},
							{Name: "Chiyoda", Country: "Japan"},
						},
					),
				)
			},
		),
	)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", srv.Client())
	name, err := c.LocateByCoords(context.Background(), 35.68, 139.77)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", name)
}

func TestLocateByCoordsNoMatch(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("[]"))
			},
		),
	)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", srv.Client())
	_, err := c.LocateByCoords(context.Background(), 0, 0)
	require.Error(t, err)
	assert.True(t, model.IsProviderError(err))
}
