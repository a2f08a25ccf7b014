package premium

import (
	"context"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

var CookieFlagsDescriptor = checks.Descriptor{
	Code:            "PG-205",
	Title:           "Effective cookie security flags",
	DefaultSeverity: severity.LevelError,
	Tier:            checks.TierPremium,
	Description: "Validates the security attributes of cookies returned over HTTPS. Production cookies must define " +
		"Secure, HttpOnly and SameSite to mitigate session fixation, XSS and CSRF attacks.",
}

type CookieFlagsCheck struct {
	effective
}

func NewCookieFlagsCheck(deps checks.Deps) checks.Check {
	ex := httpsExchange("cookie security flags", "cookie inspection")
	ex.portRemediation = "Effective cookie validation requires a running HTTPS port"
	ex.failRemediation = "Ensure the application is reachable over HTTPS during startup"
	return &CookieFlagsCheck{newEffective(CookieFlagsDescriptor, deps, ex)}
}

func (c *CookieFlagsCheck) Evaluate(ctx context.Context, rc appctx.Context) (checks.Result, bool) {
	resp, failure := c.fetch(ctx, rc)
	if resp == nil {
		return failure, true
	}

	for _, cookie := range resp.Headers.Values("set-cookie") {
		parts := checks.SplitDirectives(cookie)
		if len(parts) > 0 {
			// The first part is the cookie's name=value pair.
			parts = parts[1:]
		}

		// SameSite=None without Secure is covered by the Secure check,
		// which runs first.
		if !checks.HasDirective(parts, "secure") {
			return c.violation(
				"Cookie is missing Secure flag: "+cookie,
				"Add the Secure attribute to cookies sent over HTTPS",
			)
		}
		if !checks.HasDirective(parts, "httponly") {
			return c.violation(
				"Cookie is missing HttpOnly flag: "+cookie,
				"Add the HttpOnly attribute to prevent JavaScript access",
			)
		}
		if v, ok := checks.DirectiveParam(parts, "samesite"); !ok || v == "" {
			return c.violation(
				"Cookie is missing SameSite attribute: "+cookie,
				"Define SameSite=Strict or SameSite=Lax for cookies",
			)
		}
	}
	return pass()
}

func init() {
	checks.Register(CookieFlagsDescriptor, NewCookieFlagsCheck)
}
