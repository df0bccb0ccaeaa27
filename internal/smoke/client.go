package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient is a typed client for the contacts API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Health checks that /healthz answers 200.
func (c *HTTPClient) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// Create posts a new contact.
func (c *HTTPClient) Create(ctx context.Context, in ContactInput) (Contact, error) {
	var out Contact
	err := c.roundTrip(ctx, http.MethodPost, "/contacts", in, http.StatusOK, &out)
	return out, err
}

// Get reads one contact. found is false on 404.
func (c *HTTPClient) Get(ctx context.Context, id string) (out Contact, found bool, err error) {
	err = c.roundTrip(ctx, http.MethodGet, "/contacts/"+id, nil, http.StatusOK, &out)
	if isStatus(err, http.StatusNotFound) {
		return Contact{}, false, nil
	}
	return out, err == nil, err
}

// List reads every contact.
func (c *HTTPClient) List(ctx context.Context) ([]Contact, error) {
	var out []Contact
	err := c.roundTrip(ctx, http.MethodGet, "/contacts", nil, http.StatusOK, &out)
	return out, err
}

// Update overwrites a contact. found is false on 404.
func (c *HTTPClient) Update(ctx context.Context, id string, in ContactInput) (out Contact, found bool, err error) {
	err = c.roundTrip(ctx, http.MethodPut, "/contacts/"+id, in, http.StatusOK, &out)
	if isStatus(err, http.StatusNotFound) {
		return Contact{}, false, nil
	}
	return out, err == nil, err
}

// Delete removes a contact. found is false on 404.
func (c *HTTPClient) Delete(ctx context.Context, id string) (found bool, err error) {
	err = c.roundTrip(ctx, http.MethodDelete, "/contacts/"+id, nil, http.StatusNoContent, nil)
	if isStatus(err, http.StatusNotFound) {
		return false, nil
	}
	return err == nil, err
}

// StatusError reports an answer other than the expected one.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Unwrap lets errors.Is match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

func isStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, body any, want int, out any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode != want {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// drain reads the rest of the body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
