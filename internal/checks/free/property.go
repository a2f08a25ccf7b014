// Package free holds configuration checks that need no network access.
// They read host configuration properties from the runtime context.
package free

import (
	"context"
	"strings"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
)

// finding is what a property rule reports when violated.
type finding struct {
	message     string
	remediation string
}

// propertyCheck evaluates a single configuration property.
type propertyCheck struct {
	desc checks.Descriptor
	key  string
	// rule receives the trimmed value and whether the key is set.
	rule func(value string, present bool) (finding, bool)
}

func (c *propertyCheck) Descriptor() checks.Descriptor {
	return c.desc
}

func (c *propertyCheck) Evaluate(ctx context.Context, rc appctx.Context) (checks.Result, bool) {
	var value string
	present := false
	if rc != nil {
		value, present = rc.Property(c.key)
	}
	f, violated := c.rule(strings.TrimSpace(value), present)
	if !violated {
		return checks.Result{}, false
	}
	return checks.Violation(c.desc, f.message, f.remediation), true
}

// register adds a property check to the catalog.
func register(desc checks.Descriptor, key string, rule func(string, bool) (finding, bool)) {
	checks.Register(desc, func(checks.Deps) checks.Check {
		return &propertyCheck{desc: desc, key: key, rule: rule}
	})
}

func isTrue(v string) bool {
	return strings.EqualFold(v, "true")
}

func isFalse(v string) bool {
	return strings.EqualFold(v, "false")
}
