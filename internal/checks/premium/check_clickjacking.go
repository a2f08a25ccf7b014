package premium

import (
	"context"
	"strings"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

var ClickjackingDescriptor = checks.Descriptor{
	Code:            "PG-206",
	Title:           "Effective clickjacking protection",
	DefaultSeverity: severity.LevelError,
	Tier:            checks.TierPremium,
	Description: "Validates that the application prevents rendering inside frames. X-Frame-Options is inspected " +
		"first and the Content-Security-Policy frame-ancestors directive is accepted as a fallback.",
}

type ClickjackingCheck struct {
	effective
}

func NewClickjackingCheck(deps checks.Deps) checks.Check {
	ex := httpsExchange("clickjacking protection", "clickjacking inspection")
	ex.portRemediation = "Clickjacking protection requires a running HTTPS port"
	ex.failRemediation = "Ensure the application is reachable over HTTPS during startup"
	return &ClickjackingCheck{newEffective(ClickjackingDescriptor, deps, ex)}
}

func (c *ClickjackingCheck) Evaluate(ctx context.Context, rc appctx.Context) (checks.Result, bool) {
	resp, failure := c.fetch(ctx, rc)
	if resp == nil {
		return failure, true
	}

	if xfo, ok := resp.Headers.First("x-frame-options"); ok {
		value := strings.ToLower(xfo)
		if strings.Contains(value, "deny") || strings.Contains(value, "sameorigin") {
			return pass()
		}
		return c.violation(
			"Invalid X-Frame-Options value: "+xfo,
			"Use X-Frame-Options DENY or SAMEORIGIN",
		)
	}

	if csp, ok := resp.Headers.First("content-security-policy"); ok {
		if strings.Contains(strings.ToLower(csp), "frame-ancestors") {
			return pass()
		}
	}

	return c.violation(
		"No clickjacking protection detected",
		"Configure X-Frame-Options or CSP frame-ancestors",
	)
}

func init() {
	checks.Register(ClickjackingDescriptor, NewClickjackingCheck)
}
