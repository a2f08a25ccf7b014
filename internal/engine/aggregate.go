package engine

import (
	"prodguard/internal/output"
	"prodguard/internal/severity"
)

// aggregate resolves every found result, drops DISABLED ones, and returns
// the remaining findings in outcome order along with the blocking subset.
func aggregate(outcomes []Outcome, resolver *severity.Resolver) (findings, blocking []output.Finding) {
	for _, o := range outcomes {
		if !o.Found {
			continue
		}
		eff := resolver.Resolve(o.Result)
		if eff == severity.EffectiveDisabled {
			continue
		}
		f := output.NewFinding(o.Result, eff)
		findings = append(findings, f)
		if eff.Blocking() {
			blocking = append(blocking, f)
		}
	}
	return findings, blocking
}
