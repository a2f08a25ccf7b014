package premium

import (
	"context"
	"strings"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

var SecurityHeadersDescriptor = checks.Descriptor{
	Code:            "PG-201",
	Title:           "Effective HTTP security headers",
	DefaultSeverity: severity.LevelError,
	Tier:            checks.TierPremium,
	Description: "Validates the effective HTTP security headers returned by the application at runtime. " +
		"A real HTTP request is sent to the local server so that filters, proxies and runtime overrides are accounted for.",
}

var (
	requiredHeaders    = []string{"x-content-type-options", "x-frame-options"}
	recommendedHeaders = []string{"content-security-policy", "referrer-policy"}
)

type SecurityHeadersCheck struct {
	effective
}

func NewSecurityHeadersCheck(deps checks.Deps) checks.Check {
	return &SecurityHeadersCheck{newEffective(SecurityHeadersDescriptor, deps, exchange{
		scheme:          schemeHTTP,
		url:             checks.Target.HeadersURL,
		subject:         "HTTP security headers",
		purpose:         "header inspection",
		portRemediation: startRemediation,
		failRemediation: "Verify the server is reachable and actuator is enabled",
	})}
}

func (c *SecurityHeadersCheck) Evaluate(ctx context.Context, rc appctx.Context) (checks.Result, bool) {
	resp, failure := c.fetch(ctx, rc)
	if resp == nil {
		return failure, true
	}

	var missingRequired, missingRecommended []string
	for _, h := range requiredHeaders {
		if !resp.Headers.Has(h) {
			missingRequired = append(missingRequired, h)
		}
	}
	for _, h := range recommendedHeaders {
		if !resp.Headers.Has(h) {
			missingRecommended = append(missingRecommended, h)
		}
	}

	if len(missingRequired) > 0 {
		return c.violation(
			"Missing required HTTP security headers: "+strings.Join(missingRequired, ", "),
			"Configure the security headers in the application or verify reverse proxy configuration",
		)
	}
	if len(missingRecommended) > 0 {
		return c.violation(
			"Missing recommended HTTP security headers: "+strings.Join(missingRecommended, ", "),
			"Consider hardening security headers for production environments",
		)
	}
	return pass()
}

func init() {
	checks.Register(SecurityHeadersDescriptor, NewSecurityHeadersCheck)
}
