package engine

import (
	"fmt"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/config"
)

const skipReasonNotProduction = "prod profile not active and prodguard.force not true"

// RunPlan is the resolved set of checks for one pass, plus the gate decision.
type RunPlan struct {
	Descriptors []checks.Descriptor
	Checks      []checks.Check
	Premium     bool

	// SkipReason is non-empty when the checks must not run.
	SkipReason string
}

// NewRunPlan resolves the selected checks and constructs them with deps.
// Selection errors are returned even when the gate would skip the run.
func NewRunPlan(cfg *config.Config, deps checks.Deps, rc appctx.Context) (*RunPlan, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	premium := cfg.PremiumEnabled()
	descs, err := checks.Resolve(cfg.Checks.Selector, premium)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve checks: %w", err)
	}
	built, err := checks.Build(descs, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to build checks: %w", err)
	}

	p := &RunPlan{
		Descriptors: descs,
		Checks:      built,
		Premium:     premium,
	}
	if !appctx.IsProduction(rc) && !cfg.ForceEnabled() {
		p.SkipReason = skipReasonNotProduction
	}
	return p, nil
}

func (p *RunPlan) Skipped() bool {
	return p != nil && p.SkipReason != ""
}
