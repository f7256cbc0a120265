// Package client talks to a neuropredictor server over HTTP and websockets.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medinalabs/neuropredictor/internal/metrics"
	"github.com/medinalabs/neuropredictor/internal/models"
	"github.com/medinalabs/neuropredictor/internal/predict"
)

// RequestIDHeader carries a per-call id the server echoes into its logs.
const RequestIDHeader = "X-Request-Id"

// Client is a prediction client for a neuropredictor server.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a new client.
// If endpoint is empty, uses NEUROPREDICTOR_SERVER_URL or defaults to localhost:8585.
// NEUROPREDICTOR_CLIENT_TIMEOUT overrides the default one-minute request timeout.
func New(endpoint string) *Client {
	if endpoint == "" {
		endpoint = os.Getenv("NEUROPREDICTOR_SERVER_URL")
	}
	if endpoint == "" {
		endpoint = "http://localhost:8585"
	}

	timeout := time.Minute
	if t := os.Getenv("NEUROPREDICTOR_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Endpoint returns the server base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Predictions []models.Candidate `json:"predictions"`
	Error       string             `json:"error,omitempty"`
}

// Predict implements predict.Source against the server's /api/predict.
func (c *Client) Predict(ctx context.Context, text string) ([]models.Candidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty input", predict.ErrPredictionUnavailable)
	}

	var resp predictResponse
	if err := c.do(ctx, http.MethodPost, "/api/predict", predictRequest{Text: text}, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", predict.ErrPredictionUnavailable, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", predict.ErrPredictionUnavailable, resp.Error)
	}

	for _, cand := range resp.Predictions {
		if err := cand.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", predict.ErrPredictionUnavailable, err)
		}
	}
	models.SortByConfidence(resp.Predictions)
	return resp.Predictions, nil
}

// Stats returns the server's in-memory runtime statistics.
func (c *Client) Stats(ctx context.Context) (*metrics.Snapshot, error) {
	var snap metrics.Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server error: %s - %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
