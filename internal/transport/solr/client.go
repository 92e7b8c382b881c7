// Package solr executes composed queries against a Solr select handler.
package solr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/xfind/internal/domain/search/query"
	"github.com/kailas-cloud/xfind/internal/domain/search/result"
)

// DefaultTimeout bounds a single request when the caller sets none.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Config holds the Solr endpoint settings.
type Config struct {
	BaseURL    string // e.g. http://localhost:8983/solr
	Core       string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client is a Solr search backend.
type Client struct {
	selectURL string
	pingURL   string
	http      *http.Client
	logger    *zap.Logger
}

// NewClient validates cfg and creates a Client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("solr base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid solr base url: %w", err)
	}
	core := strings.Trim(cfg.Core, "/")
	if core == "" {
		return nil, fmt.Errorf("solr core is required")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		selectURL: base + "/" + core + "/select",
		pingURL:   base + "/" + core + "/admin/ping",
		http:      hc,
		logger:    logger,
	}, nil
}

// Execute runs q against the select handler.
func (c *Client) Execute(ctx context.Context, q *query.Query) (*result.Raw, error) {
	params, err := encodeQuery(q)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.selectURL,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Solr select", zap.String("params", params.Encode()))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solr request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readError(resp)
	}

	var body selectResponse
	d := json.NewDecoder(resp.Body)
	d.UseNumber()
	if err := d.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode solr response: %w", err)
	}
	return body.toRaw(q)
}

// Ping checks the core's ping handler.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pingURL+"?wt=json", http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("solr ping: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode ping response: %w", err)
	}
	if !strings.EqualFold(body.Status, "OK") {
		return fmt.Errorf("solr ping status %q", body.Status)
	}
	return nil
}

// StatusError is a non-2xx Solr response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("solr error %d: %s", e.StatusCode, e.Message)
}

func readError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Error struct {
			Msg string `json:"msg"`
		} `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &body) == nil && body.Error.Msg != "" {
		msg = body.Error.Msg
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
