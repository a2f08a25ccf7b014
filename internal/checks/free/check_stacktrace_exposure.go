package free

import (
	"strings"

	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

const includeStacktraceKey = "server.error.include-stacktrace"

var StacktraceExposureDescriptor = checks.Descriptor{
	Code:            "PG-003",
	Title:           "Stack traces hidden from error responses",
	DefaultSeverity: severity.LevelError,
	Tier:            checks.TierFree,
	Description:     "Error responses must not include stack traces, which reveal code structure and library versions.",
}

func stacktraceExposure(value string, present bool) (finding, bool) {
	if !strings.EqualFold(value, "always") {
		return finding{}, false
	}
	return finding{
		message:     "Stack traces are included in error responses (" + includeStacktraceKey + "=always)",
		remediation: "Set " + includeStacktraceKey + " to never",
	}, true
}

func init() {
	register(StacktraceExposureDescriptor, includeStacktraceKey, stacktraceExposure)
}
