package free

import (
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

const sslEnabledKey = "server.ssl.enabled"

var TLSEnabledDescriptor = checks.Descriptor{
	Code:            "PG-005",
	Title:           "TLS enabled",
	DefaultSeverity: severity.LevelError,
	Tier:            checks.TierFree,
	Description:     "The embedded server must terminate TLS in production.",
}

func tlsEnabled(value string, present bool) (finding, bool) {
	if present && isTrue(value) {
		return finding{}, false
	}
	return finding{
		message:     "TLS is not enabled on the embedded server (" + sslEnabledKey + ")",
		remediation: "Set " + sslEnabledKey + "=true and configure a certificate, or terminate TLS at a proxy and override this check",
	}, true
}

func init() {
	register(TLSEnabledDescriptor, sslEnabledKey, tlsEnabled)
}
