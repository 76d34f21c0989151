package reducer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// newTestClient returns a Client pointed at srv with a silent logger.
func newTestClient(t *testing.T, srv *httptest.Server, opts Options) *Client {
	t.Helper()
	opts.Endpoint = srv.URL + "/api/uncss"
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_RejectsBadEndpoints(t *testing.T) {
	for _, endpoint := range []string{"ftp://example.com/x", "http://", "::not a url"} {
		if _, err := New(Options{Endpoint: endpoint}); err == nil {
			t.Errorf("New(%q): expected error", endpoint)
		}
	}
}

func TestNew_DefaultsEndpoint(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Endpoint() != DefaultEndpoint {
		t.Fatalf("expected %q, got %q", DefaultEndpoint, c.Endpoint())
	}
}

func TestReduce_SendsContract(t *testing.T) {
	var got request
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/uncss" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		headers = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		if err := sonic.Unmarshal(body, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = io.WriteString(w, `{"outputCss":".a{color:red}"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Options{UserAgent: "uncss/test"})
	out, err := c.Reduce(context.Background(), `<div class="a"></div>`, ".a{color:red}.b{color:blue}")
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if out != ".a{color:red}" {
		t.Fatalf("unexpected output %q", out)
	}
	if got.InputHTML != `<div class="a"></div>` || got.InputCSS != ".a{color:red}.b{color:blue}" {
		t.Fatalf("unexpected request body %+v", got)
	}
	if ct := headers.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if ua := headers.Get("User-Agent"); ua != "uncss/test" {
		t.Errorf("User-Agent = %q", ua)
	}
	if _, err := uuid.Parse(headers.Get("X-Request-ID")); err != nil {
		t.Errorf("X-Request-ID is not a UUID: %v", err)
	}
}

func TestReduce_EmptyOutputIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"outputCss":""}`)
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv, Options{}).Reduce(context.Background(), "<p>", "a{}")
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestReduce_StructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"name":"ReductionError","message":"Parse failure","line":3}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, Options{}).Reduce(context.Background(), "<p>", "a{")
	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServiceError, got %T (%v)", err, err)
	}
	if se.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", se.StatusCode)
	}
	raw := se.Structured()
	if raw["name"] != "ReductionError" || raw["message"] != "Parse failure" {
		t.Errorf("unexpected raw object %v", raw)
	}
	if _, ok := raw["line"]; !ok {
		t.Errorf("expected extra fields to be kept verbatim, got %v", raw)
	}
	if se.RequestID == "" {
		t.Error("expected request id on service error")
	}
}

func TestReduce_NonObjectErrorIsStructured(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"error":"Parse failure"}`, "Parse failure"},
		{"number", `{"error":42}`, "42"},
		{"array", `{"error":["a","b"]}`, `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv, Options{}).Reduce(context.Background(), "<p>", "a{")
			var se *ServiceError
			if !errors.As(err, &se) {
				t.Fatalf("expected *ServiceError, got %T (%v)", err, err)
			}
			raw := se.Structured()
			if raw["message"] != tt.want {
				t.Errorf("message = %v, want %q", raw["message"], tt.want)
			}
			if _, ok := raw["name"]; ok {
				t.Errorf("no name expected, got %v", raw)
			}
		})
	}
}

func TestReduce_TransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    string
		wantSub string
	}{
		{"missing outputCss", http.StatusOK, `{"result":"x"}`, KindMalformed, "outputCss"},
		{"non-string outputCss", http.StatusOK, `{"outputCss":42}`, KindMalformed, "outputCss"},
		{"non-json success", http.StatusOK, `<html>`, KindMalformed, "valid JSON"},
		{"error status without object", http.StatusInternalServerError, `oops`, KindStatus, "Internal Server Error"},
		{"error field null", http.StatusBadGateway, `{"error":null}`, KindStatus, "Bad Gateway"},
		{"error field empty string", http.StatusBadGateway, `{"error":""}`, KindStatus, "Bad Gateway"},
		{"error field false", http.StatusBadGateway, `{"error":false}`, KindStatus, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv, Options{}).Reduce(context.Background(), "<p>", "a{}")
			var te *TransportError
			if !errors.As(err, &te) {
				t.Fatalf("expected *TransportError, got %T (%v)", err, err)
			}
			if te.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", te.Kind, tt.kind)
			}
			if te.Name() != tt.kind {
				t.Errorf("Name() = %q, want %q", te.Name(), tt.kind)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestReduce_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv, Options{Timeout: 50 * time.Millisecond})
	_, err := c.Reduce(context.Background(), "<p>", "a{}")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T (%v)", err, err)
	}
	if te.Kind != KindTimeout {
		t.Fatalf("Kind = %q, want %q", te.Kind, KindTimeout)
	}
}

func TestReduce_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(t, srv, Options{})
	srv.Close()

	_, err := c.Reduce(context.Background(), "<p>", "a{}")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T (%v)", err, err)
	}
	if te.Kind != KindNetwork {
		t.Fatalf("Kind = %q, want %q", te.Kind, KindNetwork)
	}
}

func TestReduce_SingleRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, _ = newTestClient(t, srv, Options{}).Reduce(context.Background(), "<p>", "a{}")
	if calls != 1 {
		t.Fatalf("expected exactly one request, got %d", calls)
	}
}
