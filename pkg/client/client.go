// Package client is a typed Go client for the viz-satellite HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/turtacn/viz-satellite/pkg/types/volcano"
)

// DefaultTimeout bounds every API call unless overridden.
const DefaultTimeout = 60 * time.Second

// Client talks to a viz-satellite server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Client for the server at baseURL
// (e.g. "http://localhost:8000").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	Stage      string `json:"stage,omitempty"`
}

func (e *APIError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("api error %d (%s, stage %s): %s", e.StatusCode, e.Code, e.Stage, e.Message)
	}
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// VolcanoParams are the data endpoint parameters.  Pointer fields are
// omitted when nil and the server applies its defaults.
type VolcanoParams struct {
	PValueThreshold *float64
	LogFCMin        *float64
	LogFCMax        *float64
	SearchTerm      string
	DatasetSize     *int
	MaxPoints       *int
	ZoomLevel       *float64
	LODMode         *bool
}

// Chunk is one row-range-tagged piece of a streamed response.
type Chunk struct {
	StartRow int             `json:"start_row"`
	EndRow   int             `json:"end_row"`
	Data     volcano.Dataset `json:"data"`
}

// VolcanoResponse is the data endpoint's envelope.
type VolcanoResponse struct {
	Data                 volcano.Dataset `json:"data"`
	Stats                volcano.Stats   `json:"stats"`
	TotalRows            int             `json:"total_rows"`
	FilteredRows         int             `json:"filtered_rows"`
	PointsBeforeSampling int             `json:"points_before_sampling"`
	IsDownsampled        bool            `json:"is_downsampled"`
	Streaming            bool            `json:"streaming,omitempty"`
	Chunks               []Chunk         `json:"chunks,omitempty"`
}

// CacheStatus mirrors the cache status endpoint.
type CacheStatus struct {
	Sizes       []int  `json:"cached_sizes"`
	Count       int    `json:"entry_count"`
	MemoryBytes uint64 `json:"memory_bytes_estimate"`
	Removed     int    `json:"removed_corrupt_entries"`
}

// WarmFailure is one size that could not be warmed.
type WarmFailure struct {
	Size   int    `json:"size"`
	Reason string `json:"reason"`
}

// WarmReport mirrors the cache warm endpoint.
type WarmReport struct {
	JobID     string        `json:"job_id"`
	Succeeded []int         `json:"succeeded"`
	Failed    []WarmFailure `json:"failed"`
}

// Health checks the liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return err
	}
	if out.Status != "healthy" {
		return fmt.Errorf("unexpected health status %q", out.Status)
	}
	return nil
}

// VolcanoData fetches filtered, sampled volcano-plot data.
func (c *Client) VolcanoData(ctx context.Context, params VolcanoParams) (*VolcanoResponse, error) {
	q := url.Values{}
	setFloat := func(key string, v *float64) {
		if v != nil {
			q.Set(key, strconv.FormatFloat(*v, 'g', -1, 64))
		}
	}
	setFloat("p_value_threshold", params.PValueThreshold)
	setFloat("log_fc_min", params.LogFCMin)
	setFloat("log_fc_max", params.LogFCMax)
	setFloat("zoom_level", params.ZoomLevel)
	if params.SearchTerm != "" {
		q.Set("search_term", params.SearchTerm)
	}
	if params.DatasetSize != nil {
		q.Set("dataset_size", strconv.Itoa(*params.DatasetSize))
	}
	if params.MaxPoints != nil {
		q.Set("max_points", strconv.Itoa(*params.MaxPoints))
	}
	if params.LODMode != nil {
		q.Set("lod_mode", strconv.FormatBool(*params.LODMode))
	}

	path := "/api/volcano-data"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out VolcanoResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CacheStatus fetches the current cache contents.
func (c *Client) CacheStatus(ctx context.Context) (*CacheStatus, error) {
	var out CacheStatus
	if err := c.do(ctx, http.MethodGet, "/api/cache/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WarmCache pre-generates datasets for the given sizes.
func (c *Client) WarmCache(ctx context.Context, sizes []int) (*WarmReport, error) {
	body := map[string][]int{"sizes": sizes}
	var out WarmReport
	if err := c.do(ctx, http.MethodPost, "/api/cache/warm", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearCache empties the server's dataset cache and returns the removed
// entry count.
func (c *Client) ClearCache(ctx context.Context) (int, error) {
	var out struct {
		Removed int `json:"removed"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/cache/clear", nil, &out); err != nil {
		return 0, err
	}
	return out.Removed, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: failed to decode response: %w", err)
	}
	return nil
}
