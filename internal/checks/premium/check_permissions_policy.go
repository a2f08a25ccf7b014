package premium

import (
	"context"
	"strings"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

var PermissionsPolicyDescriptor = checks.Descriptor{
	Code:            "PG-208",
	Title:           "Effective Permissions-Policy header",
	DefaultSeverity: severity.LevelWarn,
	Tier:            checks.TierPremium,
	Description: "Validates the Permissions-Policy header returned over HTTPS. Missing or permissive policies may " +
		"let browser features such as camera, microphone or geolocation be used unexpectedly.",
}

// sensitiveFeatures is checked in this order; the first unrestricted one is
// reported.
var sensitiveFeatures = []string{
	"camera",
	"microphone",
	"geolocation",
	"payment",
	"usb",
	"serial",
	"bluetooth",
}

type PermissionsPolicyCheck struct {
	effective
}

func NewPermissionsPolicyCheck(deps checks.Deps) checks.Check {
	ex := httpsExchange("Permissions-Policy", "Permissions-Policy inspection")
	ex.portRemediation = "Ensure the application is running before executing effective checks"
	return &PermissionsPolicyCheck{newEffective(PermissionsPolicyDescriptor, deps, ex)}
}

func (c *PermissionsPolicyCheck) Evaluate(ctx context.Context, rc appctx.Context) (checks.Result, bool) {
	resp, failure := c.fetch(ctx, rc)
	if resp == nil {
		return failure, true
	}

	policy, ok := resp.Headers.First("permissions-policy")
	if !ok {
		return c.violation(
			"Permissions-Policy header is not present",
			"Configure a restrictive Permissions-Policy",
		)
	}
	policy = strings.ToLower(policy)
	for _, feature := range sensitiveFeatures {
		if strings.Contains(policy, feature+"=*") {
			return c.violation(
				"Unrestricted browser feature detected: "+feature,
				"Restrict "+feature+" in Permissions-Policy",
			)
		}
	}
	return pass()
}

func init() {
	checks.Register(PermissionsPolicyDescriptor, NewPermissionsPolicyCheck)
}
