package free

import (
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

const showSQLKey = "spring.jpa.show-sql"

var ShowSQLDescriptor = checks.Descriptor{
	Code:            "PG-002",
	Title:           "SQL statement logging disabled",
	DefaultSeverity: severity.LevelWarn,
	Tier:            checks.TierFree,
	Description:     "Logging every SQL statement exposes query parameters and slows down the service.",
}

func showSQL(value string, present bool) (finding, bool) {
	if !isTrue(value) {
		return finding{}, false
	}
	return finding{
		message:     "SQL statement logging is enabled (" + showSQLKey + "=true)",
		remediation: "Set " + showSQLKey + " to false in production",
	}, true
}

func init() {
	register(ShowSQLDescriptor, showSQLKey, showSQL)
}
