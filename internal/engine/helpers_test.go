package engine

import (
	"bytes"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/config"
	"prodguard/internal/severity"
)

// Test checks use a "T-" prefix so they never collide with the catalog.
var (
	descWarn = checks.Descriptor{Code: "T-100", Title: "Always warns", DefaultSeverity: severity.LevelWarn, Tier: checks.TierFree}
	descErr  = checks.Descriptor{Code: "T-101", Title: "Always errors", DefaultSeverity: severity.LevelError, Tier: checks.TierFree}
	descPan  = checks.Descriptor{Code: "T-102", Title: "Panics", DefaultSeverity: severity.LevelWarn, Tier: checks.TierFree}
	descPass = checks.Descriptor{Code: "T-103", Title: "Counts and passes", DefaultSeverity: severity.LevelInfo, Tier: checks.TierFree}
	descProp = checks.Descriptor{Code: "T-104", Title: "Reads a property", DefaultSeverity: severity.LevelInfo, Tier: checks.TierFree}
)

// passEvaluations counts T-103 evaluations across a test.
var passEvaluations atomic.Int32

type fixedCheck struct {
	desc checks.Descriptor
	eval func(ctx context.Context, rc appctx.Context) (checks.Result, bool)
}

func (c *fixedCheck) Descriptor() checks.Descriptor { return c.desc }
func (c *fixedCheck) Evaluate(ctx context.Context, rc appctx.Context) (checks.Result, bool) {
	return c.eval(ctx, rc)
}

func registerFixed(d checks.Descriptor, eval func(ctx context.Context, rc appctx.Context) (checks.Result, bool)) {
	checks.Register(d, func(checks.Deps) checks.Check { return &fixedCheck{desc: d, eval: eval} })
}

func init() {
	registerFixed(descWarn, func(context.Context, appctx.Context) (checks.Result, bool) {
		return checks.Violation(descWarn, "warned", "do nothing"), true
	})
	registerFixed(descErr, func(context.Context, appctx.Context) (checks.Result, bool) {
		return checks.Violation(descErr, "errored", "fix it"), true
	})
	registerFixed(descPan, func(context.Context, appctx.Context) (checks.Result, bool) {
		panic("boom")
	})
	registerFixed(descPass, func(context.Context, appctx.Context) (checks.Result, bool) {
		passEvaluations.Add(1)
		return checks.Result{}, false
	})
	registerFixed(descProp, func(_ context.Context, rc appctx.Context) (checks.Result, bool) {
		if v, ok := rc.Property("feature.flag"); ok && v == "on" {
			return checks.Violation(descProp, "feature flag on", ""), true
		}
		return checks.Result{}, false
	})
}

// prodConfig returns a validated config with the prod profile active.
func prodConfig(t *testing.T, selector string) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Checks.Selector = selector
	cfg.Environment.Profiles = []string{"prod"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	return cfg
}

func newTestRunner(stdout, logs *bytes.Buffer) *Runner {
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewRunner(nil, WithStdout(stdout), WithLogger(logger))
}

func findingCodes(sum Summary) []string {
	var out []string
	for _, f := range sum.Findings {
		out = append(out, f.Code)
	}
	return out
}
