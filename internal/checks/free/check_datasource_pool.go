package free

import (
	"strconv"

	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

const maxPoolSizeKey = "spring.datasource.hikari.maximum-pool-size"

var DatasourcePoolDescriptor = checks.Descriptor{
	Code:            "PG-009",
	Title:           "Connection pool sized explicitly",
	DefaultSeverity: severity.LevelWarn,
	Tier:            checks.TierFree,
	Description:     "Relying on the default connection pool size hides capacity limits until production load reaches them.",
}

func datasourcePool(value string, present bool) (finding, bool) {
	if !present || value == "" {
		return finding{
			message:     "Connection pool maximum size is not configured (" + maxPoolSizeKey + ")",
			remediation: "Set " + maxPoolSizeKey + " based on expected load",
		}, true
	}
	if n, err := strconv.Atoi(value); err != nil || n <= 0 {
		return finding{
			message:     "Connection pool maximum size is invalid: " + value,
			remediation: "Set " + maxPoolSizeKey + " to a positive integer",
		}, true
	}
	return finding{}, false
}

func init() {
	register(DatasourcePoolDescriptor, maxPoolSizeKey, datasourcePool)
}
