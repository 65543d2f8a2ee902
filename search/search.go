// Package search queries the IETF datatracker document index.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kaffarell/rfc/document"
)

const defaultBaseURL = "https://datatracker.ietf.org/api/v1/doc/document/"

const defaultLimit = 20

type Config struct {
	// HTTP client to use. A client with a 30 second timeout is used if
	// nil.
	Client *http.Client
	// User agent sent on every request.
	UserAgent string
	// BaseURL overrides the datatracker API endpoint, for tests.
	BaseURL string
}

// Client searches the datatracker for documents by title.
type Client struct {
	client    *http.Client
	userAgent string
	baseURL   string
}

func New(config Config) *Client {
	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "rfc/dev"
	}
	return &Client{
		client:    client,
		userAgent: userAgent,
		baseURL:   baseURL,
	}
}

// Filter narrows a search.
type Filter struct {
	// Query is matched against document titles (case-insensitive
	// substring).
	Query string
	// Type restricts results to "rfc" or "draft"; empty means both.
	Type string
	// Limit caps the number of results. Zero means the default of 20.
	Limit int
}

// Result is a single matching document as reported by the datatracker.
type Result struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Rev      string `json:"rev"`
	Pages    int    `json:"pages"`
	Abstract string `json:"abstract"`
}

// Document returns the identity of the result, if its name parses as one.
func (r Result) Document() (document.Document, bool) {
	return document.Parse(r.Name)
}

// Search returns documents whose title matches the filter query.
func (c *Client) Search(ctx context.Context, filter Filter) ([]Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(filter), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not query datatracker: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("could not query datatracker: HTTP %d", res.StatusCode)
	}

	var payload struct {
		Objects []Result `json:"objects"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("could not parse search results: %w", err)
	}
	return payload.Objects, nil
}

// searchURL builds the query URL for a filter. Like document URL
// construction, this is a pure function.
func (c *Client) searchURL(filter Filter) string {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	query := url.Values{}
	query.Set("format", "json")
	query.Set("title__icontains", filter.Query)
	query.Set("limit", strconv.Itoa(limit))
	if filter.Type != "" {
		query.Set("type", filter.Type)
	}
	return c.baseURL + "?" + query.Encode()
}
