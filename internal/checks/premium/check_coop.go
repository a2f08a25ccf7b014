package premium

import (
	"context"
	"strings"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

var COOPDescriptor = checks.Descriptor{
	Code:            "PG-209",
	Title:           "Effective Cross-Origin-Opener-Policy header",
	DefaultSeverity: severity.LevelWarn,
	Tier:            checks.TierPremium,
	Description: "Validates the Cross-Origin-Opener-Policy header returned over HTTPS. Missing or weak policies " +
		"expose the application to cross-origin attacks such as XS-Leaks.",
}

var safeCOOPPolicies = []string{
	"same-origin",
	"same-origin-allow-popups",
}

type COOPCheck struct {
	effective
}

func NewCOOPCheck(deps checks.Deps) checks.Check {
	ex := httpsExchange("Cross-Origin-Opener-Policy", "Cross-Origin-Opener-Policy inspection")
	ex.portRemediation = "Ensure the application is running before executing effective checks"
	return &COOPCheck{newEffective(COOPDescriptor, deps, ex)}
}

func (c *COOPCheck) Evaluate(ctx context.Context, rc appctx.Context) (checks.Result, bool) {
	resp, failure := c.fetch(ctx, rc)
	if resp == nil {
		return failure, true
	}

	policy, ok := resp.Headers.First("cross-origin-opener-policy")
	if !ok {
		return c.violation(
			"Cross-Origin-Opener-Policy header is not present",
			"Configure COOP to isolate the browsing context",
		)
	}
	policy = strings.ToLower(policy)
	if !oneOf(policy, safeCOOPPolicies) {
		return c.violation(
			"Weak Cross-Origin-Opener-Policy detected: "+policy,
			"Use one of: "+strings.Join(safeCOOPPolicies, ", "),
		)
	}
	return pass()
}

func init() {
	checks.Register(COOPDescriptor, NewCOOPCheck)
}
