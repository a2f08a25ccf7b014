package checks

import "strings"

// SplitDirectives splits a header value on ';' and returns the trimmed,
// non-empty parts in order. Case is preserved.
func SplitDirectives(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// DirectiveName returns the lower-cased name of a directive or attribute,
// i.e. everything before the first '=' or whitespace.
func DirectiveName(part string) string {
	name := part
	if i := strings.IndexAny(name, "= \t"); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// HasDirective reports whether any part is named name, with or without a
// value.
func HasDirective(parts []string, name string) bool {
	name = strings.ToLower(name)
	for _, p := range parts {
		if DirectiveName(p) == name {
			return true
		}
	}
	return false
}

// DirectiveParam returns the value of the first "name=value" part. found is
// false when no part assigns name.
func DirectiveParam(parts []string, name string) (value string, found bool) {
	name = strings.ToLower(name)
	for _, p := range parts {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.ToLower(strings.TrimSpace(k)) != name {
			continue
		}
		return strings.Trim(strings.TrimSpace(v), `"`), true
	}
	return "", false
}
