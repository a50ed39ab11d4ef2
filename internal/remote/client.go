// Package remote talks to the shop backend. Every call is a single attempt; failures
// come back already classified as *apperr.Error.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/auth"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// Client is the JSON/HTTP client for the shop REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client rooted at baseURL. When tokens is non-nil every request
// carries the current bearer token.
func NewClient(baseURL string, timeout time.Duration, tokens auth.TokenSource) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	var rt http.RoundTripper = http.DefaultTransport
	if tokens != nil {
		rt = &auth.BearerTransport{Source: tokens}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout, Transport: rt},
	}
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	return doJSON(ctx, c.http, method, c.baseURL+path, in, out)
}

func doJSON(ctx context.Context, hc *http.Client, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return apperr.Unknown(fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return apperr.Unknown(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return apperr.Classify(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apperr.Network(fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode == http.StatusNoContent && out == nil {
		return nil
	}
	if e := apperr.FromHTTPStatus(resp.StatusCode, errorText(raw)); e != nil {
		return e
	}
	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return apperr.Empty("empty response")
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return apperr.Unknown(fmt.Errorf("decode %s %s: %w", method, req.URL.Path, err))
	}
	return nil
}

// errorText pulls a message out of {"error": "..."} or {"message": "..."}, else returns the raw text.
func errorText(raw []byte) string {
	var env struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &env) == nil {
		if env.Error != "" {
			return env.Error
		}
		if env.Message != "" {
			return env.Message
		}
	}
	if len(raw) > 200 {
		raw = raw[:200]
	}
	return string(raw)
}
