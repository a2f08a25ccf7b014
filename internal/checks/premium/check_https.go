package premium

import (
	"context"
	"net/http"
	"strings"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

var HTTPSDescriptor = checks.Descriptor{
	Code:            "PG-202",
	Title:           "Effective HTTPS enforcement",
	DefaultSeverity: severity.LevelError,
	Tier:            checks.TierPremium,
	Description: "Verifies that the application enforces HTTPS at runtime. A plain HTTP request is sent and the " +
		"application must either redirect to HTTPS or explicitly reject the insecure connection.",
}

type HTTPSCheck struct {
	effective
}

func NewHTTPSCheck(deps checks.Deps) checks.Check {
	return &HTTPSCheck{newEffective(HTTPSDescriptor, deps, exchange{
		scheme:          schemeHTTP,
		url:             checks.Target.HTTPURL,
		subject:         "HTTPS enforcement",
		purpose:         "HTTPS enforcement check",
		portRemediation: startRemediation,
		failRemediation: "Verify the server is reachable and accepts HTTP connections",
	})}
}

func (c *HTTPSCheck) Evaluate(ctx context.Context, rc appctx.Context) (checks.Result, bool) {
	resp, failure := c.fetch(ctx, rc)
	if resp == nil {
		return failure, true
	}

	switch resp.Status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		for _, loc := range resp.Headers.Values("location") {
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(loc)), "https://") {
				return pass()
			}
		}
		return c.violation(
			"HTTP requests are redirected, but not to HTTPS",
			"Ensure HTTP traffic is redirected to HTTPS endpoints",
		)
	case http.StatusForbidden, http.StatusUpgradeRequired:
		return pass()
	}

	return c.violation(
		"Application accepts plain HTTP requests without HTTPS enforcement",
		"Configure HTTPS redirection or enforce TLS at proxy/application level",
	)
}

func init() {
	checks.Register(HTTPSDescriptor, NewHTTPSCheck)
}
