package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"prodguard/internal/config"
	"prodguard/internal/engine"
	"prodguard/internal/flags"
	"prodguard/internal/logging"
	"prodguard/internal/probe"
)

var cfg = config.New()

const runLong = `Run the production readiness checks once and decide whether startup may continue.

Checks only run when an active profile is "prod" or "production" (case-insensitive).
Use --force, or the property prodguard.force=true, to run them anyway.

Configuration:
	Flags can be combined with a YAML (.yaml/.yml) or TOML (.toml) file given via --config.
	Explicit flags win over file values. --severity and --property entries are merged
	over the file's severities and properties maps.
	When --profile is omitted, PRODGUARD_PROFILES_ACTIVE (comma-separated) is used.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --report: write a Markdown report
	- --no-console: suppress the console sink (use with --emit/--out for machine output)
	Logs (one record per finding) go to stderr, see --log-format and --log-level.

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
	"type" field (run.started, run.skipped, check.finding, run.finished).
	Findings are represented as an Event with type "check.finding" carrying the
	finding's code, severity, kind, message and remediation.

Exit codes:
	0 = continue (no blocking findings, report-only, or checks skipped)
	1 = abort (at least one ERROR finding)
	3 = fatal error (checks did not run)

Examples:
	# Free configuration checks only
	prodguard run --profile prod --property server.ssl.enabled=true

	# Effective HTTP checks against a local server with a self-signed certificate
	prodguard run --profile prod --premium --port 8443 --insecure-skip-verify

	# Downgrade a check and never abort
	prodguard run --force --severity PG-203=WARN --report-only

	# Stream machine-readable events to stdout
	prodguard run --config prodguard.yaml --no-console --emit ndjson
`

// newRunCmd builds the run command bound to c. exit receives the process
// exit status.
func newRunCmd(c *config.Config, exit func(code int)) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the production readiness checks",
		Long:  runLong,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			exit(runChecks(cmd, c, configPath))
		},
	}
	cmd.Flags().StringVar(&configPath, flags.FlagConfig, "", "Path to a YAML or TOML config file")
	bindRunFlags(cmd.Flags(), c)
	return cmd
}

func bindRunFlags(fs *pflag.FlagSet, c *config.Config) {
	// MAINTAINER NOTE: If you add/change/remove any run-affecting flags here,
	// keep config.FileConfig and config.Validate in sync.

	// Target
	fs.StringVar(&c.Target.Host, flags.FlagHost, c.Target.Host, "Host the effective checks probe")
	fs.IntVar(&c.Target.Port, flags.FlagPort, c.Target.Port, "Local server port (0 = unknown; effective checks then report verification failures)")
	fs.StringVar(&c.Target.Path, flags.FlagPath, c.Target.Path, "Path probed by the HTTPS checks and the HTTPS enforcement check")
	fs.StringVar(&c.Target.HeadersPath, flags.FlagHeadersPath, c.Target.HeadersPath, "Path probed by the aggregate security headers check")
	fs.BoolVar(&c.Target.InsecureSkipVerify, flags.FlagInsecureSkipVerify, false, "Accept self-signed TLS certificates")

	// Checks
	fs.StringVar(&c.Checks.Selector, flags.FlagChecks, "", "Comma-separated check codes to run (empty = all checks of the enabled tiers)")
	fs.BoolVar(&c.Checks.Premium, flags.FlagPremium, false, "Enable the premium effective HTTP checks")
	fs.StringSliceVar(&c.Checks.Severities, flags.FlagSeverity, nil, "Severity override as CODE=ERROR|WARN|INFO|DISABLED (repeatable; comma-separated accepted)")

	// Environment
	fs.StringSliceVar(&c.Environment.Profiles, flags.FlagProfile, nil, "Active profile (repeatable; comma-separated accepted). Falls back to "+flags.EnvProfilesActive)
	fs.StringArrayVar(&c.Environment.Properties, flags.FlagProperty, nil, "Configuration property as key=value (repeatable; values are not split on commas)")
	fs.BoolVar(&c.Environment.Force, flags.FlagForce, false, "Run the checks even when no prod profile is active")
	fs.BoolVar(&c.Environment.ReportOnly, flags.FlagReportOnly, false, "Report blocking findings without aborting")

	// Output
	fs.StringVar(&c.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text|json|ndjson (default: text)")
	fs.StringSliceVar(&c.Output.ConsoleFilterSeverity, flags.FlagConsoleFilterSeverity, nil, "Filter console output by severity (ERROR, WARN, INFO). Comma-separated.")
	fs.StringVar(&c.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
	fs.StringVar(&c.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	fs.StringVar(&c.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	fs.StringSliceVar(&c.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	fs.BoolVar(&c.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out/--report)")

	// Runtime
	fs.IntVar(&c.Runtime.Concurrency, flags.FlagConcurrency, c.Runtime.Concurrency, "Checks evaluated concurrently (default: 4)")
	fs.DurationVar(&c.Runtime.ConnectTimeout, flags.FlagConnectTimeout, c.Runtime.ConnectTimeout, "Probe connect timeout (default: 3s)")
	fs.DurationVar(&c.Runtime.RequestTimeout, flags.FlagRequestTimeout, c.Runtime.RequestTimeout, "Probe request timeout (default: 5s)")
	fs.DurationVar(&c.Runtime.Timeout, flags.FlagTimeout, c.Runtime.Timeout, "Timeout for the whole pass (default: 1m)")
	fs.StringVar(&c.Runtime.LogFormat, flags.FlagLogFormat, c.Runtime.LogFormat, "Log format: text|json (default: text)")
	fs.StringVar(&c.Runtime.LogLevel, flags.FlagLogLevel, c.Runtime.LogLevel, "Log level: debug|info|warn|error (default: info)")
}

// runChecks loads and validates the configuration, runs one pass and returns
// the exit status.
func runChecks(cmd *cobra.Command, c *config.Config, configPath string) int {
	stderr := cmd.ErrOrStderr()
	changed := cmd.Flags().Changed

	if configPath != "" {
		fc, err := config.LoadFile(configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 3
		}
		fc.Apply(c, changed)
	}
	config.ApplyEnv(c, changed, os.LookupEnv)

	if err := c.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 3
	}

	level, err := logging.ParseLevel(c.Runtime.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 3
	}
	if c.Runtime.Verbose {
		level = slog.LevelDebug
	}
	logger, err := logging.New(stderr, c.Runtime.LogFormat, level)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create logger: %v\n", err)
		return 3
	}

	probeOpts := []probe.Option{
		probe.WithConnectTimeout(c.Runtime.ConnectTimeout),
		probe.WithRequestTimeout(c.Runtime.RequestTimeout),
		probe.WithInsecureSkipVerify(c.Target.InsecureSkipVerify),
	}
	if c.Runtime.Verbose {
		probeOpts = append(probeOpts, probe.WithLogger(logger))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runner := engine.NewRunner(probe.NewHTTPProbe(probeOpts...),
		engine.WithLogger(logger),
		engine.WithStdout(cmd.OutOrStdout()),
	)
	_, err = runner.Run(ctx, c)
	if err != nil {
		if errors.Is(err, engine.ErrBlockingIssues) {
			fmt.Fprintf(stderr, "%v\n", err)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
	}
	return engine.ExitCode(err)
}

var runCmd = newRunCmd(cfg, os.Exit)

func init() {
	rootCmd.AddCommand(runCmd)
}
