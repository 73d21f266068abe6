// Package generator speaks the outbound HTTP contract of the remote QR image
// service. The service is an opaque collaborator: the client posts the
// configuration payload as JSON and treats a 2xx body as opaque image bytes.
package generator

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

	"github.com/goliatone/go-qrform/pkg/model"
)

// DefaultEndpoint is the generation route exposed by the backend service.
const DefaultEndpoint = "/api/qrcode"

const defaultTimeout = 30 * time.Second

// Client issues a single generation request and returns the raw image bytes.
type Client interface {
	Generate(ctx context.Context, payload model.Payload) (Result, error)
}

// Result carries the opaque response body plus the content type the service
// declared for it.
type Result struct {
	Data        []byte
	ContentType string
}

// StatusError reports a non-2xx response from the generation service. The
// response body is unspecified by the contract and is drained and discarded.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generator: unexpected status %d", e.Code)
}

// Option customises the HTTP client configuration.
type Option func(*HTTPClient)

// WithHTTPClient injects a custom *http.Client (timeouts, proxies, transports).
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithEndpoint overrides the generation URL. Accepts an absolute URL.
func WithEndpoint(endpoint string) Option {
	return func(c *HTTPClient) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			c.endpoint = trimmed
		}
	}
}

// WithTimeout caps request duration when no custom http.Client is supplied.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// HTTPClient is the default Client implementation.
type HTTPClient struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
}

// Ensure the implementation satisfies the public interface.
var _ Client = (*HTTPClient)(nil)

// New constructs an HTTPClient applying any provided options.
func New(options ...Option) (*HTTPClient, error) {
	c := &HTTPClient{
		timeout: defaultTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.endpoint == "" {
		return nil, errors.New("generator: endpoint is required")
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// Generate posts the payload and returns the response body as opaque bytes.
// Non-2xx statuses surface as *StatusError; transport failures are wrapped.
func (c *HTTPClient) Generate(ctx context.Context, payload model.Payload) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("generator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("generator: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("generator: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("generator: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Result{}, &StatusError{Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("generator: read response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	return Result{Data: data, ContentType: contentType}, nil
}
