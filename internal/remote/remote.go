// Package remote is the client for the hosted note functions:
// organize-incidents, which turns raw notes into flat incident records, and
// improve-grammar, which polishes narrative text. Both are opaque services
// reached over HTTP with a bearer token.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JaimeStill/clearcase/internal/names"
	"github.com/JaimeStill/clearcase/pkg/formatting"
)

const maxResponseBytes = 4 << 20

// APIIncident is the flat incident shape returned by organize-incidents.
type APIIncident struct {
	Date      string    `json:"date"`
	Category  string    `json:"category"`
	Who       names.Who `json:"who"`
	What      string    `json:"what"`
	Where     string    `json:"where"`
	When      string    `json:"when"`
	Witnesses names.Who `json:"witnesses"`
	Notes     string    `json:"notes"`
}

// OrganizeResponse is the organize-incidents response envelope.
type OrganizeResponse struct {
	OK        bool          `json:"ok"`
	Incidents []APIIncident `json:"incidents,omitempty"`
	Error     string        `json:"error,omitempty"`
	Message   string        `json:"message,omitempty"`
	Code      string        `json:"code,omitempty"`
}

// Improvement is a single improve-grammar result.
type Improvement struct {
	ImprovedText string `json:"improvedText"`
	HasChanges   bool   `json:"hasChanges"`
}

// Config holds the connection settings for the hosted functions.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client calls the hosted note functions.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client for the functions rooted at cfg.BaseURL.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		timeout: cfg.Timeout,
		http:    &http.Client{},
		logger:  logger.With("system", "remote"),
	}
}

// Organize sends notes to organize-incidents. Transport failures, non-2xx
// responses, undecodable bodies, and ok=false envelopes all return an error
// wrapping ErrOrganizeFailed.
func (c *Client) Organize(ctx context.Context, notes string) ([]APIIncident, error) {
	resp, err := call[OrganizeResponse](ctx, c, "organize-incidents", map[string]string{"notes": notes})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOrganizeFailed, err)
	}

	if !resp.OK {
		reason := resp.Error
		if reason == "" {
			reason = resp.Message
		}
		if reason == "" {
			reason = "ok=false"
		}
		return nil, fmt.Errorf("%w: %s (code %q)", ErrOrganizeFailed, reason, resp.Code)
	}

	return resp.Incidents, nil
}

// ImproveGrammar sends a single text to improve-grammar.
func (c *Client) ImproveGrammar(ctx context.Context, text string) (Improvement, error) {
	resp, err := call[Improvement](ctx, c, "improve-grammar", map[string]string{"text": text})
	if err != nil {
		return Improvement{}, fmt.Errorf("%w: %w", ErrGrammarFailed, err)
	}
	return resp, nil
}

// ImproveGrammarBatch sends several texts in one improve-grammar call. The
// result has one entry per input, in input order.
func (c *Client) ImproveGrammarBatch(ctx context.Context, texts []string) ([]Improvement, error) {
	resp, err := call[batchResponse](ctx, c, "improve-grammar", map[string][]string{"texts": texts})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGrammarFailed, err)
	}
	if len(resp.Results) != len(texts) {
		return nil, fmt.Errorf("%w: %d results for %d texts", ErrGrammarFailed, len(resp.Results), len(texts))
	}
	return resp.Results, nil
}

type batchResponse struct {
	Results []Improvement `json:"results"`
}

// call posts payload to function and decodes the response body as T. Bodies
// wrapped in a markdown code fence are accepted.
func call[T any](ctx context.Context, c *Client, function string, payload any) (T, error) {
	var zero T

	data, err := c.post(ctx, function, payload)
	if err != nil {
		return zero, err
	}

	out, err := formatting.Parse[T](string(data))
	if err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, function string, payload any) ([]byte, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+function, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("remote call",
		"function", function,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	return data, nil
}
