// Package attribapi provides a client for the marketing-attribution API.
//
// The API serves four daily datasets: installs and events as JSON with a
// JSON-encoded payload string, costs as tab-separated text, and orders as a
// parquet file. Events are cursor-paginated and occasionally answer with a
// literal "Error" body, which callers treat as transient and retry.
package attribapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	maxBodySize = 64 << 20 // 64 MB, orders parquet files can be large
	dateParam   = "2006-01-02"
)

var (
	// ErrTransient indicates the API returned its transient error sentinel
	// and the same request should be retried.
	ErrTransient = errors.New("attribapi: transient upstream error")
	// ErrUnauthorized indicates the bearer token was rejected.
	ErrUnauthorized = errors.New("attribapi: unauthorized")
)

// Client fetches attribution datasets.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given base URL and authorization
// token. Returns an error if either is empty.
func NewClient(baseURL, token string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("attribapi: base URL not configured")
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("attribapi: authorization token not configured")
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// get performs an authenticated GET and returns the raw response body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("attribapi: creating request: %w", err)
	}
	req.Header.Set("Authorization", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("attribapi: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("attribapi: unexpected status %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("attribapi: reading response: %w", err)
	}
	return body, nil
}

func dateQuery(date time.Time) url.Values {
	q := url.Values{}
	q.Set("date", date.Format(dateParam))
	return q
}

// decodePayload unwraps the API's double encoding: the named field holds a
// JSON-encoded string which itself contains the record array.
func decodePayload(body []byte, field string, out any) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("attribapi: parsing envelope: %w", err)
	}
	raw, ok := envelope[field]
	if !ok {
		return fmt.Errorf("attribapi: response missing %q field", field)
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return fmt.Errorf("attribapi: %q field is not a string: %w", field, err)
	}
	if err := json.Unmarshal([]byte(encoded), out); err != nil {
		return fmt.Errorf("attribapi: parsing %q payload: %w", field, err)
	}
	return nil
}
