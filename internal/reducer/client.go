package reducer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	// DefaultEndpoint is the reduction route of a locally served UnCSS Online.
	DefaultEndpoint = "http://localhost:3000/api/uncss"

	// DefaultTimeout bounds a single request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 8 << 20
)

// request is the body sent to the endpoint.
type request struct {
	InputHTML string `json:"inputHtml"`
	InputCSS  string `json:"inputCss"`
}

// Options configures a Client.
type Options struct {
	// Endpoint is the absolute URL requests are POSTed to.
	Endpoint string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	// UserAgent is sent with every request. Empty omits the header.
	UserAgent string
	// HTTPClient overrides the client used for requests. Its Timeout is left
	// untouched when set.
	HTTPClient *http.Client
	// Logger receives debug output. Nil uses log.Default().
	Logger *log.Logger
}

// Client talks to the CSS reduction endpoint. It performs exactly one request
// per Reduce call and never retries.
type Client struct {
	endpoint  string
	userAgent string
	http      *http.Client
	logger    *log.Logger
}

// New validates opts and returns a Client.
func New(opts Options) (*Client, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Client{
		endpoint:  u.String(),
		userAgent: opts.UserAgent,
		http:      hc,
		logger:    logger,
	}, nil
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Reduce POSTs html and css to the endpoint and returns the reduced CSS.
//
// Errors are either *ServiceError, when the endpoint reported a structured
// error object, or *TransportError for everything else.
func (c *Client) Reduce(ctx context.Context, html, css string) (string, error) {
	requestID := uuid.NewString()

	body, err := sonic.Marshal(request{InputHTML: html, InputCSS: css})
	if err != nil {
		return "", &TransportError{Kind: KindNetwork, RequestID: requestID,
			Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Kind: KindNetwork, RequestID: requestID,
			Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	started := time.Now()
	c.logger.Debug("sending reduction request",
		"endpoint", c.endpoint, "request_id", requestID,
		"html_bytes", len(html), "css_bytes", len(css))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Kind: transportKind(err), RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &TransportError{Kind: transportKind(err), StatusCode: resp.StatusCode,
			RequestID: requestID, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("reduction response received",
		"request_id", requestID, "status", resp.StatusCode,
		"bytes", len(payload), "elapsed", time.Since(started))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decodeSuccess(payload, resp.StatusCode, requestID)
	}
	return "", decodeFailure(payload, resp.StatusCode, requestID)
}

// decodeSuccess extracts outputCss from a 2xx body.
func decodeSuccess(payload []byte, status int, requestID string) (string, error) {
	if !gjson.ValidBytes(payload) {
		return "", &TransportError{Kind: KindMalformed, StatusCode: status, RequestID: requestID,
			Err: errors.New("response body is not valid JSON")}
	}
	out := gjson.GetBytes(payload, "outputCss")
	if out.Type != gjson.String {
		return "", &TransportError{Kind: KindMalformed, StatusCode: status, RequestID: requestID,
			Err: errors.New("response body has no outputCss string")}
	}
	return out.String(), nil
}

// decodeFailure turns a non-2xx body into a ServiceError when it carries a
// truthy error field, or a TransportError otherwise. An error object is kept
// verbatim; any other truthy value becomes {"message": value}.
func decodeFailure(payload []byte, status int, requestID string) error {
	if gjson.ValidBytes(payload) {
		if raw := errorObject(gjson.GetBytes(payload, "error")); raw != nil {
			return &ServiceError{StatusCode: status, RequestID: requestID, Raw: raw}
		}
	}
	return &TransportError{Kind: KindStatus, StatusCode: status, RequestID: requestID,
		Err: fmt.Errorf("reduction service responded with %s", http.StatusText(status))}
}

// errorObject returns the structured error for field, or nil when the field
// is missing or falsy (null, false, "" or 0).
func errorObject(field gjson.Result) map[string]any {
	switch field.Type {
	case gjson.Null, gjson.False:
		return nil
	case gjson.String:
		if field.Str == "" {
			return nil
		}
		return map[string]any{"message": field.Str}
	case gjson.Number:
		if field.Num == 0 {
			return nil
		}
		return map[string]any{"message": field.Raw}
	}

	if field.IsObject() {
		var raw map[string]any
		if err := sonic.UnmarshalString(field.Raw, &raw); err == nil {
			return raw
		}
		return nil
	}
	// true or an array
	return map[string]any{"message": field.Raw}
}

// transportKind tells timeouts apart from other network failures.
func transportKind(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}
