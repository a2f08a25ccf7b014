package free

import (
	"strings"

	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

const rootLogLevelKey = "logging.level.root"

var DebugLoggingDescriptor = checks.Descriptor{
	Code:            "PG-001",
	Title:           "Debug logging disabled",
	DefaultSeverity: severity.LevelWarn,
	Tier:            checks.TierFree,
	Description:     "Verbose root logging in production leaks internals into logs and degrades throughput.",
}

func debugLogging(value string, present bool) (finding, bool) {
	switch strings.ToLower(value) {
	case "debug", "trace":
		return finding{
			message:     "Root log level is " + strings.ToUpper(value) + " (" + rootLogLevelKey + ")",
			remediation: "Set " + rootLogLevelKey + " to INFO or WARN in production",
		}, true
	}
	return finding{}, false
}

func init() {
	register(DebugLoggingDescriptor, rootLogLevelKey, debugLogging)
}
