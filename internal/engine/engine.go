// Package engine is the HTTP client for the remote computation engine that
// performs analysis, cleaning and model training.
//
// Every call carries its own timeout budget. Nothing is retried: a failed or
// timed-out call is reported to the caller as-is.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"tabgate/internal/config"
	"tabgate/internal/tabular"
)

const maxErrorBody = 1 << 20

var (
	// ErrTimeout is returned when a call exceeds its timeout budget.
	ErrTimeout = errors.New("engine request timed out")
	// ErrUnavailable is returned when the engine cannot be reached at all.
	ErrUnavailable = errors.New("engine unavailable")
)

// UpstreamError carries a non-2xx engine response. Body is the engine's error
// payload, always valid JSON: the raw body when it parses, a JSON string otherwise.
type UpstreamError struct {
	Status int
	Body   json.RawMessage
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("engine returned status %d: %s", e.Status, string(e.Body))
}

// AnalyzeRequest is sent to POST /analyze.
type AnalyzeRequest struct {
	Data         []tabular.Record `json:"data"`
	Columns      []string         `json:"columns"`
	AnalysisType string           `json:"analysisType"`
}

// CleanRequest is sent to POST /clean. Only the path travels, never the rows.
type CleanRequest struct {
	Filepath       string   `json:"filepath"`
	CleaningMethod string   `json:"cleaningMethod"`
	Columns        []string `json:"columns,omitempty"`
}

// CleanResponse is the subset of the /clean response relayed to clients.
type CleanResponse struct {
	CleanedData  json.RawMessage `json:"cleanedData"`
	Summary      json.RawMessage `json:"summary"`
	OriginalRows json.RawMessage `json:"originalRows"`
	CleanedRows  json.RawMessage `json:"cleanedRows"`
	RemovedRows  json.RawMessage `json:"removedRows"`
	Method       json.RawMessage `json:"method"`
}

// TrainRequest is sent to POST /train.
type TrainRequest struct {
	Filepath  string   `json:"filepath"`
	ModelType string   `json:"modelType"`
	Features  []string `json:"features"`
	Target    string   `json:"target"`
}

// TrainResponse is the subset of the /train response relayed to clients.
type TrainResponse struct {
	TrainingSamples   json.RawMessage `json:"training_samples"`
	TestSamples       json.RawMessage `json:"test_samples"`
	Metrics           json.RawMessage `json:"metrics"`
	Predictions       json.RawMessage `json:"predictions"`
	FeatureImportance json.RawMessage `json:"feature_importance"`
	ModelType         json.RawMessage `json:"model_type"`
}

// Download is a streamed file from GET /download_cleaned. The caller must close Body.
type Download struct {
	Body               io.ReadCloser
	ContentType        string
	ContentDisposition string
	ContentLength      int64
}

// Engine is the set of remote operations the orchestrators depend on.
type Engine interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (json.RawMessage, error)
	Clean(ctx context.Context, req CleanRequest) (*CleanResponse, error)
	Train(ctx context.Context, req TrainRequest) (*TrainResponse, error)
	Download(ctx context.Context, filepath string) (*Download, error)
	Health(ctx context.Context) error
}

// Client implements Engine over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	cfg     config.EngineConfig
	metrics *Metrics
}

var _ Engine = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default traced HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMetrics records per-operation counters and latencies.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client for the engine at cfg.BaseURL.
func New(cfg config.EngineConfig, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze forwards normalized records and returns the engine's analysis verbatim.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.postJSON(ctx, "analyze", "/analyze", c.cfg.AnalyzeTimeout, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Clean asks the engine to clean the file at req.Filepath.
func (c *Client) Clean(ctx context.Context, req CleanRequest) (*CleanResponse, error) {
	var out CleanResponse
	if err := c.postJSON(ctx, "clean", "/clean", c.cfg.CleanTimeout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Train asks the engine to fit a model on the file at req.Filepath.
func (c *Client) Train(ctx context.Context, req TrainRequest) (*TrainResponse, error) {
	var out TrainResponse
	if err := c.postJSON(ctx, "train", "/train", c.cfg.TrainTimeout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download opens a streamed download of the cleaned file. It is bounded only by
// ctx since the body is consumed after this call returns.
func (c *Client) Download(ctx context.Context, filepath string) (*Download, error) {
	start := time.Now()
	q := url.Values{"file_path": {filepath}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/download_cleaned?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		err = classify(err)
		c.metrics.observe("download", err, start)
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := &UpstreamError{Status: resp.StatusCode, Body: errorBody(resp.StatusCode, b)}
		c.metrics.observe("download", err, start)
		return nil, err
	}

	c.metrics.observe("download", nil, start)
	return &Download{
		Body:               resp.Body,
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		ContentLength:      resp.ContentLength,
	}, nil
}

// Health checks the engine's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()
	return c.do(ctx, "health", http.MethodGet, "/health", nil, nil)
}

func (c *Client) postJSON(ctx context.Context, op, path string, timeout time.Duration, in, out any) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.do(ctx, op, http.MethodPost, path, in, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() { c.metrics.observe(op, err, start) }()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return classify(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Status: resp.StatusCode, Body: errorBody(resp.StatusCode, b)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// classify maps transport failures onto ErrTimeout or ErrUnavailable.
// A caller cancellation is returned unchanged.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func errorBody(status int, b []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	msg := string(trimmed)
	if msg == "" {
		msg = http.StatusText(status)
	}
	quoted, _ := json.Marshal(msg)
	return quoted
}
