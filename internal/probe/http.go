package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	DefaultConnectTimeout = 3 * time.Second
	DefaultRequestTimeout = 5 * time.Second

	// maxDrainBytes bounds how much of a response body is read before the
	// connection is closed.
	maxDrainBytes = 64 << 10
)

// HTTPProbe is the production Probe. It never follows redirects, never
// retries, and discards response bodies.
type HTTPProbe struct {
	client *http.Client
}

type options struct {
	connectTimeout     time.Duration
	requestTimeout     time.Duration
	insecureSkipVerify bool
	logger             *slog.Logger
	base               http.RoundTripper
}

type Option func(*options)

func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) { o.connectTimeout = d }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithInsecureSkipVerify disables certificate verification. Local services
// commonly present self-signed certificates on their HTTPS port.
func WithInsecureSkipVerify(skip bool) Option {
	return func(o *options) { o.insecureSkipVerify = skip }
}

// WithLogger enables one debug record per request and response.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTransport replaces the underlying transport. Timeouts set through
// WithConnectTimeout only apply to the default transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// loggingRoundTripper wraps an underlying transport and emits one record per
// request and response (including latency).
type loggingRoundTripper struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.logger.Debug("probe request", "method", req.Method, "url", req.URL.String())
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start).Truncate(time.Millisecond)
	if err != nil {
		t.logger.Debug("probe error", "url", req.URL.String(), "duration", dur, "error", err)
	} else {
		t.logger.Debug("probe response", "url", req.URL.String(), "status", resp.StatusCode, "duration", dur)
	}
	return resp, err
}

func NewHTTPProbe(opts ...Option) *HTTPProbe {
	o := &options{
		connectTimeout: DefaultConnectTimeout,
		requestTimeout: DefaultRequestTimeout,
	}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}

	transport := o.base
	if transport == nil {
		dialer := &net.Dialer{Timeout: o.connectTimeout}
		transport = &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: o.connectTimeout,
			TLSClientConfig: &tls.Config{
				MinVersion:         tls.VersionTLS12,
				InsecureSkipVerify: o.insecureSkipVerify,
			},
			DisableKeepAlives: true,
		}
	}
	if o.logger != nil {
		transport = &loggingRoundTripper{base: transport, logger: o.logger}
	}

	return &HTTPProbe{
		client: &http.Client{
			Transport: transport,
			Timeout:   o.requestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (p *HTTPProbe) Send(ctx context.Context, req Request) (*Response, error) {
	if p == nil || p.client == nil {
		return nil, errors.New("probe: nil HTTPProbe (use NewHTTPProbe)")
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return nil, &TransportError{Method: method, URL: req.URL, Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: method, URL: req.URL, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	return &Response{
		Status:  resp.StatusCode,
		Headers: NewHeaders(resp.Header),
	}, nil
}
