package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MaxPage is the highest page TMDB serves for discover queries.
const MaxPage = 500

// Movie is a single discover result.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	ReleaseDate      string  `json:"release_date"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
}

// Response models one page of a discover query.
type Response struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// DiscoverOptions filters a discover query. Zero values are omitted.
type DiscoverOptions struct {
	Year             int
	Page             int
	OriginalLanguage string
	MinVoteCount     int
	SortBy           string
}

func (o DiscoverOptions) values() url.Values {
	params := url.Values{}
	if o.Year > 0 {
		params.Set("primary_release_year", strconv.Itoa(o.Year))
	}
	page := o.Page
	if page <= 0 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	if sortBy := strings.TrimSpace(o.SortBy); sortBy != "" {
		params.Set("sort_by", sortBy)
	}
	if lang := strings.TrimSpace(o.OriginalLanguage); lang != "" {
		params.Set("with_original_language", lang)
	}
	if o.MinVoteCount > 0 {
		params.Set("vote_count.gte", strconv.Itoa(o.MinVoteCount))
	}
	return params
}

// Discoverer is the subset of the TMDB API used by discovery.
type Discoverer interface {
	Discover(ctx context.Context, opts DiscoverOptions) (*Response, error)
}

// Client provides access to the TMDB discover API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Discoverer = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Discover fetches one page of /discover/movie.
func (c *Client) Discover(ctx context.Context, opts DiscoverOptions) (*Response, error) {
	if opts.Page > MaxPage {
		return nil, fmt.Errorf("page %d exceeds tmdb limit %d", opts.Page, MaxPage)
	}
	endpoint, err := url.Parse(c.baseURL + "/discover/movie")
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	params := opts.values()
	params.Set("api_key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body)), Latency: latency}
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tmdb response: %w", err)
	}
	return &payload, nil
}

// StatusError reports a non-200 response from TMDB.
type StatusError struct {
	StatusCode int
	Body       string
	Latency    time.Duration
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tmdb discover returned %d (latency=%v)", e.StatusCode, e.Latency)
	}
	return fmt.Sprintf("tmdb discover returned %d (latency=%v): %s", e.StatusCode, e.Latency, e.Body)
}
