package premium

import (
	"context"
	"strings"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

var CSPDescriptor = checks.Descriptor{
	Code:            "PG-204",
	Title:           "Effective Content Security Policy",
	DefaultSeverity: severity.LevelError,
	Tier:            checks.TierPremium,
	Description: "Validates the Content-Security-Policy header returned at runtime. The policy must be enforced " +
		"rather than report-only and must not allow unsafe-inline, unsafe-eval or wildcard default sources.",
}

type CSPCheck struct {
	effective
}

func NewCSPCheck(deps checks.Deps) checks.Check {
	return &CSPCheck{newEffective(CSPDescriptor, deps, httpsExchange("Content Security Policy", "CSP inspection"))}
}

func (c *CSPCheck) Evaluate(ctx context.Context, rc appctx.Context) (checks.Result, bool) {
	resp, failure := c.fetch(ctx, rc)
	if resp == nil {
		return failure, true
	}

	if resp.Headers.Has("content-security-policy-report-only") {
		return c.violation(
			"CSP is configured in report-only mode",
			"Enforce Content-Security-Policy instead of report-only",
		)
	}

	policy, ok := resp.Headers.First("content-security-policy")
	if !ok {
		return c.violation(
			"Content-Security-Policy header is not present",
			"Define a strict Content-Security-Policy for production",
		)
	}
	policy = strings.ToLower(policy)

	if strings.Contains(policy, "unsafe-inline") || strings.Contains(policy, "unsafe-eval") {
		return c.violation(
			"CSP contains unsafe directives (unsafe-inline / unsafe-eval)",
			"Remove unsafe CSP directives and use nonces or hashes",
		)
	}

	if allowsWildcardDefault(policy) {
		return c.violation(
			"CSP allows wildcard sources",
			"Restrict CSP sources explicitly instead of using '*'",
		)
	}
	return pass()
}

func allowsWildcardDefault(policy string) bool {
	for _, d := range checks.SplitDirectives(policy) {
		if checks.DirectiveName(d) == "default-src" && strings.Contains(d, "*") {
			return true
		}
	}
	return false
}

func init() {
	checks.Register(CSPDescriptor, NewCSPCheck)
}
