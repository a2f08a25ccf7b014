package premium

import (
	"context"
	"fmt"
	"strconv"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

// MinHSTSMaxAge is one year, in seconds.
const MinHSTSMaxAge = 31536000

var HSTSDescriptor = checks.Descriptor{
	Code:            "PG-203",
	Title:           "Effective HSTS configuration",
	DefaultSeverity: severity.LevelError,
	Tier:            checks.TierPremium,
	Description: "Verifies that the application enforces HTTP Strict Transport Security at runtime by checking the " +
		"presence and strength of the Strict-Transport-Security header returned over HTTPS.",
}

type HSTSCheck struct {
	effective
}

func NewHSTSCheck(deps checks.Deps) checks.Check {
	return &HSTSCheck{newEffective(HSTSDescriptor, deps, httpsExchange("HSTS configuration", "HSTS inspection"))}
}

func (c *HSTSCheck) Evaluate(ctx context.Context, rc appctx.Context) (checks.Result, bool) {
	resp, failure := c.fetch(ctx, rc)
	if resp == nil {
		return failure, true
	}

	hsts, ok := resp.Headers.First("strict-transport-security")
	if !ok {
		return c.violation(
			"HSTS header is not present in HTTPS responses",
			"Configure Strict-Transport-Security with an appropriate max-age",
		)
	}

	raw, ok := checks.DirectiveParam(checks.SplitDirectives(hsts), "max-age")
	if !ok {
		return c.violation(
			"HSTS header is present but missing max-age directive",
			"Configure Strict-Transport-Security with a valid max-age",
		)
	}

	maxAge := parseMaxAge(raw)
	if maxAge < MinHSTSMaxAge {
		return c.violation(
			fmt.Sprintf("HSTS max-age is too low (%d seconds)", maxAge),
			"Use a max-age of at least 31536000 seconds (1 year)",
		)
	}
	return pass()
}

// parseMaxAge returns -1 when raw is not a non-negative integer.
func parseMaxAge(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

func init() {
	checks.Register(HSTSDescriptor, NewHSTSCheck)
}
