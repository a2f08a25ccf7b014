package appctx

import "strings"

// Context is the read-only view of the host application that checks
// evaluate against.
type Context interface {
	// LocalPort returns the port the service listens on locally.
	// ok is false when no port is known (for example a non-web process).
	LocalPort() (port int, ok bool)
	Property(key string) (string, bool)
	ActiveProfiles() []string
}

// MapContext is a simple read-only implementation of Context.
type MapContext struct {
	port       int
	properties map[string]string
	profiles   []string
}

// NewMapContext returns a Context backed by the given values.
// A port <= 0 means the local port is unknown.
func NewMapContext(port int, properties map[string]string, profiles []string) *MapContext {
	// A nil map is treated as an empty property set.
	copied := make(map[string]string, len(properties))
	for k, v := range properties {
		copied[k] = v
	}
	return &MapContext{
		port:       port,
		properties: copied,
		profiles:   append([]string(nil), profiles...),
	}
}

func (c *MapContext) LocalPort() (int, bool) {
	if c == nil || c.port <= 0 {
		return 0, false
	}
	return c.port, true
}

func (c *MapContext) Property(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.properties[key]
	return v, ok
}

func (c *MapContext) ActiveProfiles() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.profiles...)
}

// IsProduction reports whether any active profile is "prod" or
// "production", ignoring case.
func IsProduction(c Context) bool {
	if c == nil {
		return false
	}
	for _, p := range c.ActiveProfiles() {
		p = strings.TrimSpace(p)
		if strings.EqualFold(p, "prod") || strings.EqualFold(p, "production") {
			return true
		}
	}
	return false
}
