// Package probe defines the single-request network contract the checks
// depend on, plus a net/http implementation of it.
package probe

import (
	"context"
	"fmt"
	"net/http"
)

// Request describes one outbound probe.
type Request struct {
	Method string
	URL    string
}

// Get returns a GET request for url.
func Get(url string) Request {
	return Request{Method: http.MethodGet, URL: url}
}

// Response holds the facts checks inspect. The body is never kept.
type Response struct {
	Status  int
	Headers Headers
}

// Probe sends one request and returns the response status and headers.
// Implementations must not retry and must not follow redirects.
type Probe interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

// Func adapts a function to the Probe interface.
type Func func(ctx context.Context, req Request) (*Response, error)

func (f Func) Send(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Static returns a Probe that always answers with the given response.
func Static(status int, headers map[string][]string) Probe {
	return Func(func(ctx context.Context, req Request) (*Response, error) {
		return &Response{Status: status, Headers: NewHeaders(headers)}, nil
	})
}

// TransportError reports that the exchange could not be completed
// (connection refused, TLS failure, timeout, malformed response).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: transport error", e.Method, e.URL)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
