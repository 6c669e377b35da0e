// Package httpjson performs single-attempt JSON GET requests for the
// lookup providers.
package httpjson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nevindra/locality"
)

// UserAgent is sent with every request.
const UserAgent = "locality/1.0 (+https://github.com/nevindra/locality)"

// maxBody caps how much of a response is read.
const maxBody = 1 << 20 // 1MB

// DefaultTimeout is the client timeout used when none is supplied.
const DefaultTimeout = 10 * time.Second

// NewClient returns an http.Client with the given timeout, or
// DefaultTimeout when d is not positive.
func NewClient(d time.Duration) *http.Client {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &http.Client{Timeout: d}
}

// Get fetches rawURL and decodes the JSON body into v. Non-2xx responses
// are returned as *locality.ErrHTTP.
func Get(ctx context.Context, client *http.Client, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > 256 {
			body = body[:256]
		}
		return &locality.ErrHTTP{Status: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
