package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prodguard/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "prodguard",
	Short: "Verify that a locally running service is safe to expose in production",
	Long: `Prod-Guard verifies a service's production readiness before it takes traffic.

It evaluates configuration properties (free checks) and, with --premium, issues
one real HTTP request per check against the locally running server to inspect
the security headers it actually returns.

Examples:
	# Show available commands and global flags
	prodguard --help

	# Run the checks against a local server on port 8443
	prodguard run --port 8443 --profile prod

	# List checks
	prodguard checks list

	# Print build info
	prodguard version

Output:
	By default, commands write human-readable output to stdout and logs to stderr.
	The run command supports structured output via --emit and --out (see "prodguard run --help").`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every probe round trip and each check evaluation)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
