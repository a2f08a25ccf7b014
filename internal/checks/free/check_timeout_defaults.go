package free

import (
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

const requestTimeoutKey = "spring.mvc.async.request-timeout"

var TimeoutDefaultsDescriptor = checks.Descriptor{
	Code:            "PG-010",
	Title:           "Request timeout configured",
	DefaultSeverity: severity.LevelWarn,
	Tier:            checks.TierFree,
	Description:     "Without an explicit request timeout slow clients and stuck handlers hold resources indefinitely.",
}

func timeoutDefaults(value string, present bool) (finding, bool) {
	if present && value != "" {
		return finding{}, false
	}
	return finding{
		message:     "Request timeout is not configured (" + requestTimeoutKey + ")",
		remediation: "Set " + requestTimeoutKey + " to a bounded duration such as 30s",
	}, true
}

func init() {
	register(TimeoutDefaultsDescriptor, requestTimeoutKey, timeoutDefaults)
}
