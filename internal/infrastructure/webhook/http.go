package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/llinneaa/coyote/internal/application/ports"
)

// HTTPEmitter POSTs resource change events as JSON. The target URI comes
// from the resource group, so one emitter serves all groups.
type HTTPEmitter struct {
	client  *http.Client
	headers map[string]string
}

// HTTPEmitterOption configures HTTPEmitter.
type HTTPEmitterOption func(*HTTPEmitter)

// WithClient sets the HTTP client (default: 10s timeout).
func WithClient(c *http.Client) HTTPEmitterOption {
	return func(e *HTTPEmitter) {
		e.client = c
	}
}

// WithHeader sets a header sent on every request (e.g. Authorization).
func WithHeader(key, value string) HTTPEmitterOption {
	return func(e *HTTPEmitter) {
		if e.headers == nil {
			e.headers = make(map[string]string)
		}
		e.headers[key] = value
	}
}

// NewHTTPEmitter returns a WebhookEmitter that POSTs events as JSON.
func NewHTTPEmitter(opts ...HTTPEmitterOption) *HTTPEmitter {
	e := &HTTPEmitter{
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit implements ports.WebhookEmitter.
func (e *HTTPEmitter) Emit(ctx context.Context, uri string, event ports.WebhookEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &emitError{status: resp.StatusCode}
	}
	return nil
}

type emitError struct {
	status int
}

func (e *emitError) Error() string {
	return fmt.Sprintf("webhook endpoint returned status %d", e.status)
}

var _ ports.WebhookEmitter = (*HTTPEmitter)(nil)
