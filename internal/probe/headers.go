package probe

import "strings"

// Headers is a multi-valued header map keyed by lower-cased header name.
// Build it with NewHeaders so lookups are case-insensitive regardless of how
// the source map was keyed.
type Headers map[string][]string

// NewHeaders copies src into a Headers value, merging keys that differ only
// by case in the order they are encountered.
func NewHeaders(src map[string][]string) Headers {
	h := make(Headers, len(src))
	for name, values := range src {
		key := strings.ToLower(strings.TrimSpace(name))
		h[key] = append(h[key], values...)
	}
	return h
}

// Values returns all values for name.
func (h Headers) Values(name string) []string {
	if h == nil {
		return nil
	}
	return h[strings.ToLower(name)]
}

// Has reports whether name was returned at all, even with an empty value.
func (h Headers) Has(name string) bool {
	if h == nil {
		return false
	}
	_, ok := h[strings.ToLower(name)]
	return ok
}

// First returns the first value for name, trimmed.
func (h Headers) First(name string) (string, bool) {
	values := h.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}
