package opensubtitles

import (
	"bytes"
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

const (
	defaultBaseURL     = "https://api.opensubtitles.com/api/v1"
	defaultUserAgent   = "Opening Line v1.0"
	defaultHTTPTimeout = 45 * time.Second
	errorBodyLimit     = 4096
)

// Config describes the OpenSubtitles client configuration.
type Config struct {
	APIKey     string
	UserAgent  string
	BaseURL    string
	HTTPClient *http.Client
}

// Client wraps the OpenSubtitles REST API.
type Client struct {
	apiKey    string
	userAgent string
	baseURL   *url.URL
	http      *http.Client
}

// Fetcher is the subset of the API used during curation.
type Fetcher interface {
	Search(ctx context.Context, req SearchRequest) (SearchResponse, error)
	Download(ctx context.Context, fileID int64) (DownloadResult, error)
}

var _ Fetcher = (*Client)(nil)

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("opensubtitles: api key is required")
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("opensubtitles: parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		apiKey:    apiKey,
		userAgent: userAgent,
		baseURL:   baseURL,
		http:      client,
	}, nil
}

// Search queries /subtitles. Results keep the API's download-count ordering.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	if req.TMDBID <= 0 {
		return SearchResponse{}, errors.New("opensubtitles: tmdb id is required")
	}
	endpoint := c.baseURL.JoinPath("subtitles")
	endpoint.RawQuery = req.values().Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("opensubtitles: build search request: %w", err)
	}
	c.applyHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("opensubtitles: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return SearchResponse{}, newStatusError("search", resp)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return SearchResponse{}, fmt.Errorf("opensubtitles: decode search response: %w", err)
	}

	subtitles := make([]Subtitle, 0, len(payload.Data))
	for _, entry := range payload.Data {
		files := make([]File, 0, len(entry.Attributes.Files))
		for _, f := range entry.Attributes.Files {
			files = append(files, File{ID: f.FileID, Name: f.FileName})
		}
		subtitles = append(subtitles, Subtitle{
			ID:               entry.ID,
			Language:         entry.Attributes.Language,
			Release:          entry.Attributes.Release,
			FeatureTitle:     entry.Attributes.FeatureDetails.Title,
			FeatureYear:      entry.Attributes.FeatureDetails.Year,
			Downloads:        entry.Attributes.DownloadCount,
			FromTrusted:      entry.Attributes.FromTrusted,
			ForeignPartsOnly: entry.Attributes.ForeignPartsOnly,
			Files:            files,
		})
	}

	return SearchResponse{
		Subtitles: subtitles,
		Total:     payload.TotalCount,
	}, nil
}

// Download resolves a temporary link for fileID and fetches the subtitle
// payload from it.
func (c *Client) Download(ctx context.Context, fileID int64) (DownloadResult, error) {
	if fileID <= 0 {
		return DownloadResult{}, errors.New("opensubtitles: invalid file id")
	}
	payload, err := json.Marshal(downloadRequest{FileID: fileID, Format: "srt"})
	if err != nil {
		return DownloadResult{}, fmt.Errorf("opensubtitles: encode download request: %w", err)
	}

	endpoint := c.baseURL.JoinPath("download")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return DownloadResult{}, fmt.Errorf("opensubtitles: build download request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.applyHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("opensubtitles: download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return DownloadResult{}, newStatusError("download link", resp)
	}

	var info downloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return DownloadResult{}, fmt.Errorf("opensubtitles: decode download response: %w", err)
	}
	if strings.TrimSpace(info.Link) == "" {
		return DownloadResult{}, ErrMissingLink
	}

	link, err := endpoint.Parse(info.Link)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("opensubtitles: parse download url: %w", err)
	}
	data, err := c.fetch(ctx, link)
	if err != nil {
		return DownloadResult{}, err
	}

	return DownloadResult{
		Data:        data,
		FileName:    info.FileName,
		DownloadURL: link.String(),
		Remaining:   info.Remaining,
	}, nil
}

func (c *Client) fetch(ctx context.Context, link *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("opensubtitles: build link request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opensubtitles: fetch subtitle payload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, newStatusError("subtitle fetch", resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("opensubtitles: read subtitle data: %w", err)
	}
	return data, nil
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
}

// ErrMissingLink is returned when the download endpoint answers without a link.
var ErrMissingLink = errors.New("opensubtitles: download response missing link")

// StatusError reports an HTTP error answer from the API.
type StatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func newStatusError(operation string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	return &StatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}
}

func (e *StatusError) Error() string {
	return "opensubtitles: " + e.Operation + " failed (" + e.Status + "): " + e.Body
}

func (r SearchRequest) values() url.Values {
	params := url.Values{}
	params.Set("tmdb_id", strconv.FormatInt(r.TMDBID, 10))
	if len(r.Languages) > 0 {
		params.Set("languages", strings.Join(r.Languages, ","))
	}
	if r.ExcludeForeignParts {
		params.Set("foreign_parts_only", "exclude")
	}
	if r.TrustedSourcesOnly {
		params.Set("trusted_sources", "only")
	}
	params.Set("order_by", "download_count")
	params.Set("order_direction", "desc")
	return params
}
