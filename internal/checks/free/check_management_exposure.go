package free

import (
	"strings"

	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

const exposureIncludeKey = "management.endpoints.web.exposure.include"

var ManagementExposureDescriptor = checks.Descriptor{
	Code:            "PG-004",
	Title:           "Management endpoints not fully exposed",
	DefaultSeverity: severity.LevelError,
	Tier:            checks.TierFree,
	Description:     "Exposing every management endpoint over HTTP publishes environment, heap and configuration data.",
}

func managementExposure(value string, present bool) (finding, bool) {
	if !strings.Contains(value, "*") {
		return finding{}, false
	}
	return finding{
		message:     "All management endpoints are exposed over HTTP (" + exposureIncludeKey + "=" + value + ")",
		remediation: "List only the endpoints you need, for example health,info",
	}, true
}

func init() {
	register(ManagementExposureDescriptor, exposureIncludeKey, managementExposure)
}
