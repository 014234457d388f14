// Package mapbox talks to the Mapbox geocoding API and turns tool
// actions into camera and marker commands for the map frontend.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.mapbox.com"

// Point is a WGS84 coordinate, longitude first as Mapbox returns it.
type Point struct {
	Lon float64
	Lat float64
}

// Client resolves place names to coordinates.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient builds a geocoding client with the given access token.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
	}
}

// NewClientWithBaseURL is for tests pointing at a local server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

// Geocode resolves a free-form place name to its best-match coordinate.
func (c *Client) Geocode(ctx context.Context, query string) (Point, error) {
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?access_token=%s&limit=1",
		c.baseURL, url.PathEscape(query), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Point{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocode %q: unexpected status %d", query, resp.StatusCode)
	}

	var body struct {
		Features []struct {
			Center []float64 `json:"center"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Point{}, fmt.Errorf("geocode %q: decode response: %w", query, err)
	}
	if len(body.Features) == 0 || len(body.Features[0].Center) < 2 {
		return Point{}, fmt.Errorf("geocode %q: no match", query)
	}
	center := body.Features[0].Center
	return Point{Lon: center[0], Lat: center[1]}, nil
}
