package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/valora-mx/estimator-api/pkg/model"
)

const suggestionLimit = 5

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps a Nominatim-style geocoding endpoint. Every response is
// advisory: provider failures degrade to empty suggestions or an unresolved
// location, and no call is retried.
type Client struct {
	baseURL    string
	userAgent  string
	country    string
	httpClient HTTPClient
	mock       bool
}

// Config defines settings for the geocoding client.
type Config struct {
	BaseURL   string
	UserAgent string
	// Country is appended to suggestion queries to keep results in scope.
	Country string
	Mock    bool
}

// New creates a geocoding client.
func New(httpClient HTTPClient, cfg Config) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	base := cfg.BaseURL
	if base == "" {
		base = "https://nominatim.openstreetmap.org/search"
	}
	agent := cfg.UserAgent
	if agent == "" {
		agent = "estimator-api"
	}
	return &Client{
		baseURL:    base,
		userAgent:  agent,
		country:    cfg.Country,
		httpClient: httpClient,
		mock:       cfg.Mock,
	}
}

// Suggest returns up to five address completions for a partial query. The
// country scope is appended to the query. A provider failure yields an empty
// slice, never an error.
func (c *Client) Suggest(ctx context.Context, partial string) []string {
	if partial == "" {
		return nil
	}
	if c.mock {
		return []string{partial + ", Centro, Ciudad de México, México"}
	}

	query := partial
	if c.country != "" {
		query = partial + ", " + c.country
	}
	places, err := c.search(ctx, query, suggestionLimit)
	if err != nil {
		return nil
	}
	if len(places) > suggestionLimit {
		places = places[:suggestionLimit]
	}
	suggestions := make([]string, 0, len(places))
	for _, p := range places {
		suggestions = append(suggestions, p.DisplayName)
	}
	return suggestions
}

// Resolve geocodes a full address to coordinates. It returns nil when the
// provider times out, is unavailable, or finds no match.
func (c *Client) Resolve(ctx context.Context, address string) *model.GeoLocation {
	if address == "" {
		return nil
	}
	if c.mock {
		return &model.GeoLocation{
			Latitude:        19.432608,
			Longitude:       -99.133209,
			ResolvedAddress: address,
		}
	}

	places, err := c.search(ctx, address, 1)
	if err != nil || len(places) == 0 {
		return nil
	}
	lat, latErr := strconv.ParseFloat(places[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(places[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return nil
	}
	return &model.GeoLocation{
		Latitude:        lat,
		Longitude:       lon,
		ResolvedAddress: places[0].DisplayName,
	}
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geocoder status %d: %s", resp.StatusCode, string(body))
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return places, nil
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
