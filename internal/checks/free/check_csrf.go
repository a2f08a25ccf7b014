package free

import (
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

const csrfEnabledKey = "security.csrf.enabled"

var CSRFDescriptor = checks.Descriptor{
	Code:            "PG-007",
	Title:           "CSRF protection enabled",
	DefaultSeverity: severity.LevelError,
	Tier:            checks.TierFree,
	Description:     "Disabling CSRF protection allows cross-site requests to act on behalf of authenticated users.",
}

func csrf(value string, present bool) (finding, bool) {
	if !isFalse(value) {
		return finding{}, false
	}
	return finding{
		message:     "CSRF protection is disabled (" + csrfEnabledKey + "=false)",
		remediation: "Enable CSRF protection for browser-facing endpoints",
	}, true
}

func init() {
	register(CSRFDescriptor, csrfEnabledKey, csrf)
}
