// Package weather proxies current conditions from OpenWeatherMap and
// reshapes them into the compact summary the dashboard renders.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

var ErrCityNotFound = errors.New("city not found")

// Summary is the reshaped upstream response; temperatures in metric.
type Summary struct {
	City     string  `json:"city"`
	Temp     int     `json:"temp"`
	Desc     string  `json:"desc"`
	Icon     string  `json:"icon"`
	Humidity int     `json:"humidity"`
	Wind     float64 `json:"wind"`
}

type Client struct {
	httpc   *http.Client
	baseURL string
}

func NewClient() *Client {
	return &Client{
		httpc:   &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
	}
}

// NewClientWithBaseURL points the client at an alternate endpoint; used
// by tests to stand in for the upstream API.
func NewClientWithBaseURL(base string) *Client {
	c := NewClient()
	c.baseURL = base
	return c
}

type upstreamResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current fetches conditions for query, e.g. "Wellington" or
// "Wellington,NZ". An unknown city maps to ErrCityNotFound; everything
// else upstream-shaped is a generic error for the handler to render as
// an upstream failure.
func (c *Client) Current(ctx context.Context, apiKey, query string) (Summary, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("appid", apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Summary{}, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return Summary{}, fmt.Errorf("weather upstream: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Summary{}, ErrCityNotFound
	case resp.StatusCode != http.StatusOK:
		return Summary{}, fmt.Errorf("weather upstream: status %d", resp.StatusCode)
	}

	var body upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Summary{}, fmt.Errorf("weather upstream: %w", err)
	}

	out := Summary{
		City:     body.Name,
		Temp:     int(math.Round(body.Main.Temp)),
		Humidity: body.Main.Humidity,
		Wind:     body.Wind.Speed,
	}
	if len(body.Weather) > 0 {
		out.Desc = body.Weather[0].Description
		out.Icon = body.Weather[0].Icon
	}
	return out, nil
}
