package tally

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/medilink/hms-api/pkg/apperror"
)

// Client posts XML envelopes to the external bookkeeping system over HTTP.
// Any connection, status or parse failure surfaces as a transport error,
// which fails the whole sync run.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the external system at host:port
func NewClient(host string, port int, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    fmt.Sprintf("http://%s:%d", host, port),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Exchange sends a request envelope and parses the response envelope
func (c *Client) Exchange(ctx context.Context, req *Envelope) (*Envelope, error) {
	body, err := Marshal(req)
	if err != nil {
		return nil, apperror.NewTransportError("encode", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, apperror.NewTransportError("request", err)
	}
	httpReq.Header.Set("Content-Type", "application/xml")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperror.NewTransportError("connect", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewTransportError("connect", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewTransportError("read", err)
	}

	env, err := Unmarshal(data)
	if err != nil {
		return nil, apperror.NewTransportError("parse", err)
	}
	return env, nil
}

// Ping checks that the external system is reachable
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return apperror.NewTransportError("request", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.NewTransportError("connect", err)
	}
	resp.Body.Close()
	return nil
}
