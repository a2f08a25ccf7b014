// Package checks defines the pluggable check abstraction and the catalog
// that concrete check packages register into.
package checks

import (
	"context"
	"net"
	"strconv"
	"strings"

	"prodguard/internal/appctx"
	"prodguard/internal/probe"
)

type Check interface {
	Descriptor() Descriptor

	// Evaluate inspects the running service and returns at most one
	// finding. ok is false when nothing was found.
	// Implementations must not panic and must not retry probe calls.
	Evaluate(ctx context.Context, rc appctx.Context) (result Result, ok bool)
}

// Constructor builds a Check from its runtime collaborators.
type Constructor func(Deps) Check

// Deps carries the collaborators injected into every check.
type Deps struct {
	Probe  probe.Probe
	Target Target
}

const (
	DefaultHost        = "localhost"
	DefaultPath        = "/"
	DefaultHeadersPath = "/actuator/health"
)

// Target describes where effective checks send their requests. The port
// always comes from the runtime context.
type Target struct {
	Host string
	// Path is probed by the per-header HTTPS checks and the HTTPS
	// enforcement check.
	Path string
	// HeadersPath is probed by the aggregate security-headers check.
	HeadersPath string
}

// HTTPURL returns the plain HTTP URL of Path.
func (t Target) HTTPURL(port int) string {
	return t.url("http", port, t.Path, DefaultPath)
}

// HTTPSURL returns the HTTPS URL of Path.
func (t Target) HTTPSURL(port int) string {
	return t.url("https", port, t.Path, DefaultPath)
}

// HeadersURL returns the plain HTTP URL of HeadersPath.
func (t Target) HeadersURL(port int) string {
	return t.url("http", port, t.HeadersPath, DefaultHeadersPath)
}

func (t Target) url(scheme string, port int, path, fallback string) string {
	host := strings.TrimSpace(t.Host)
	if host == "" {
		host = DefaultHost
	}
	path = strings.TrimSpace(path)
	if path == "" {
		path = fallback
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(port)) + path
}
