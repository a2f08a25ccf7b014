package flags

// Package flags defines canonical CLI flag names shared across the CLI and the
// config layer. Config validation errors name the offending flag, so both
// sides reference these constants.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().IntVar(&cfg.Target.Port, flags.FlagPort, 0, "...")
//	arg := "--" + flags.FlagPort
const (
	FlagConfig = "config"

	// Target
	FlagHost               = "host"
	FlagPort               = "port"
	FlagPath               = "path"
	FlagHeadersPath        = "headers-path"
	FlagInsecureSkipVerify = "insecure-skip-verify"

	// Checks
	FlagChecks   = "checks"
	FlagPremium  = "premium"
	FlagSeverity = "severity"

	// Environment
	FlagProfile    = "profile"
	FlagProperty   = "property"
	FlagForce      = "force"
	FlagReportOnly = "report-only"

	// Output
	FlagConsoleFormat         = "console-format"
	FlagConsoleFilterSeverity = "console-filter-severity"
	FlagReport                = "report"
	FlagOut                   = "out"
	FlagOutFormat             = "out-format"
	FlagEmit                  = "emit"
	FlagNoConsole             = "no-console"

	// Runtime
	FlagConcurrency    = "concurrency"
	FlagConnectTimeout = "connect-timeout"
	FlagRequestTimeout = "request-timeout"
	FlagTimeout        = "timeout"
	FlagVerbose        = "verbose"
	FlagLogFormat      = "log-format"
	FlagLogLevel       = "log-level"
)

// EnvProfilesActive supplies active profiles when --profile is not given.
const EnvProfilesActive = "PRODGUARD_PROFILES_ACTIVE"
