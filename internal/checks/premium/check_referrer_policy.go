package premium

import (
	"context"
	"strings"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

var ReferrerPolicyDescriptor = checks.Descriptor{
	Code:            "PG-207",
	Title:           "Effective Referrer-Policy header",
	DefaultSeverity: severity.LevelWarn,
	Tier:            checks.TierPremium,
	Description: "Validates the Referrer-Policy header returned over HTTPS. Weak or missing referrer policies may " +
		"leak sensitive URL information to third-party origins.",
}

var safeReferrerPolicies = []string{
	"no-referrer",
	"same-origin",
	"strict-origin",
	"strict-origin-when-cross-origin",
}

type ReferrerPolicyCheck struct {
	effective
}

func NewReferrerPolicyCheck(deps checks.Deps) checks.Check {
	ex := httpsExchange("Referrer-Policy", "Referrer-Policy inspection")
	ex.portRemediation = "Ensure the application is running before executing effective checks"
	return &ReferrerPolicyCheck{newEffective(ReferrerPolicyDescriptor, deps, ex)}
}

func (c *ReferrerPolicyCheck) Evaluate(ctx context.Context, rc appctx.Context) (checks.Result, bool) {
	resp, failure := c.fetch(ctx, rc)
	if resp == nil {
		return failure, true
	}

	policy, ok := resp.Headers.First("referrer-policy")
	if !ok {
		return c.violation(
			"Referrer-Policy header is not present",
			"Configure Referrer-Policy to restrict referrer leakage",
		)
	}
	policy = strings.ToLower(policy)
	if !oneOf(policy, safeReferrerPolicies) {
		return c.violation(
			"Weak Referrer-Policy detected: "+policy,
			"Use one of: "+strings.Join(safeReferrerPolicies, ", "),
		)
	}
	return pass()
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

func init() {
	checks.Register(ReferrerPolicyDescriptor, NewReferrerPolicyCheck)
}
