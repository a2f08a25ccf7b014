package config

import (
	"fmt"
	"strings"
	"time"

	"prodguard/internal/flags"
	"prodguard/internal/output"
	"prodguard/internal/severity"
)

// Property keys that toggle runner behavior from inside the target's
// configuration, next to their flag equivalents.
const (
	PropertyForce          = "prodguard.force"
	PropertyPremiumEnabled = "prodguard.premium.enabled"
	PropertyReportOnly     = "prodguard.report-only"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect a run,
	// keep these in sync:
	// - CLI flags in internal/cli/run.go
	// - file keys in internal/config/file.go:FileConfig
	Target      Target
	Checks      Checks
	Environment Environment
	Output      Output
	Runtime     Runtime
}

type Target struct {
	// Host is the address the effective checks probe (see --host).
	Host string

	// Port is the local server port (see --port). 0 means unknown, in which
	// case every effective check reports a verification failure.
	Port int

	// Path is probed by the HTTPS-based checks and the HTTPS enforcement check (see --path).
	Path string

	// HeadersPath is probed by the aggregate security headers check (see --headers-path).
	HeadersPath string

	// InsecureSkipVerify accepts self-signed local certificates (see --insecure-skip-verify).
	InsecureSkipVerify bool
}

type Checks struct {
	// Selector narrows the checks to run as a comma-separated list of codes (see --checks).
	// Empty means every check of the enabled tiers.
	Selector string

	// Premium enables the effective HTTP checks (see --premium).
	Premium bool

	// Severities overrides check severities as CODE=LEVEL entries (see --severity).
	// Values may be provided as repeated flags and/or comma-separated lists.
	Severities []string
}

type Environment struct {
	// Profiles are the active profiles (see --profile). Checks only run when
	// prod or production is among them, unless Force is set.
	Profiles []string

	// Properties are key=value configuration properties of the target (see --property).
	// Values are not comma-split since property values may contain commas.
	Properties []string

	// Force runs the checks regardless of the active profiles (see --force).
	Force bool

	// ReportOnly downgrades an abort decision to a warning (see --report-only).
	ReportOnly bool
}

type Output struct {
	// ConsoleFormat controls the human-facing console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilterSeverity filters console output by effective severity (see --console-filter-severity).
	// Allowed values: ERROR, WARN, INFO.
	ConsoleFilterSeverity []string

	// Report writes a Markdown report to this path (see --report).
	Report string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the --out file extension.
	OutFormat string

	// Emit writes an additional structured event stream to stdout (see --emit).
	// Allowed values: json, ndjson.
	Emit []string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

type Runtime struct {
	// Concurrency bounds how many checks run at once (see --concurrency).
	// Must be >= 1.
	Concurrency int

	// ConnectTimeout bounds dialing the target (see --connect-timeout).
	ConnectTimeout time.Duration

	// RequestTimeout bounds each probe request end to end (see --request-timeout).
	RequestTimeout time.Duration

	// Timeout bounds the whole pass (see --timeout).
	Timeout time.Duration

	// Verbose logs every probe round trip.
	Verbose bool

	// LogFormat selects the slog handler (see --log-format).
	// Allowed values: text, json.
	LogFormat string

	// LogLevel is the minimum log level (see --log-level).
	// Allowed values: debug, info, warn, error.
	LogLevel string
}

func New() *Config {
	return &Config{
		Target: Target{
			Host:        "localhost",
			Path:        "/",
			HeadersPath: "/actuator/health",
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Concurrency:    4,
			ConnectTimeout: 3 * time.Second,
			RequestTimeout: 5 * time.Second,
			Timeout:        time.Minute,
			LogFormat:      "text",
			LogLevel:       "info",
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Checks.Severities = splitCommaList(c.Checks.Severities)
	c.Environment.Profiles = splitCommaList(c.Environment.Profiles)
	c.Output.ConsoleFilterSeverity = splitCommaList(c.Output.ConsoleFilterSeverity)
	c.Output.Emit = splitCommaList(c.Output.Emit)

	// Target validation
	c.Target.Host = strings.TrimSpace(c.Target.Host)
	if c.Target.Host == "" {
		return fmt.Errorf("--%s must not be empty", flags.FlagHost)
	}
	if c.Target.Port < 0 || c.Target.Port > 65535 {
		return fmt.Errorf("--%s must be between 0 and 65535", flags.FlagPort)
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		return fmt.Errorf("--%s must be one of: text, json, ndjson", flags.FlagConsoleFormat)
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --%s: %s (must be one of: text, json, ndjson)", flags.FlagConsoleFormat, c.Output.ConsoleFormat)
	}

	for i, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --%s value: %s (must be one of: json, ndjson)", flags.FlagEmit, v)
		}
		c.Output.Emit[i] = v
	}

	for i, s := range c.Output.ConsoleFilterSeverity {
		lvl, err := severity.ParseLevel(s)
		if err != nil {
			return fmt.Errorf("invalid --%s value: %w", flags.FlagConsoleFilterSeverity, err)
		}
		c.Output.ConsoleFilterSeverity[i] = string(lvl)
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			inferred, err := output.InferFileFormat(c.Output.Out)
			if err != nil {
				return fmt.Errorf("%w; use --%s", err, flags.FlagOutFormat)
			}
			c.Output.OutFormat = inferred
		} else if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	// Runtime validation
	if c.Runtime.Concurrency <= 0 {
		return fmt.Errorf("--%s must be >= 1", flags.FlagConcurrency)
	}
	if c.Runtime.ConnectTimeout <= 0 {
		return fmt.Errorf("--%s must be > 0", flags.FlagConnectTimeout)
	}
	if c.Runtime.RequestTimeout <= 0 {
		return fmt.Errorf("--%s must be > 0", flags.FlagRequestTimeout)
	}
	if c.Runtime.Timeout <= 0 {
		return fmt.Errorf("--%s must be > 0", flags.FlagTimeout)
	}

	c.Runtime.LogFormat = normalizeEnumValue(c.Runtime.LogFormat)
	if c.Runtime.LogFormat == "" {
		c.Runtime.LogFormat = "text"
	}
	if c.Runtime.LogFormat != "text" && c.Runtime.LogFormat != "json" {
		return fmt.Errorf("unsupported --%s: %s (must be one of: text, json)", flags.FlagLogFormat, c.Runtime.LogFormat)
	}
	c.Runtime.LogLevel = normalizeEnumValue(c.Runtime.LogLevel)
	switch c.Runtime.LogLevel {
	case "":
		c.Runtime.LogLevel = "info"
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported --%s: %s (must be one of: debug, info, warn, error)", flags.FlagLogLevel, c.Runtime.LogLevel)
	}

	// Assignment syntax validation
	if _, err := ParseSeverityOverrides(c.Checks.Severities); err != nil {
		return err
	}
	if _, err := ParseProperties(c.Environment.Properties); err != nil {
		return err
	}

	return nil
}

// PropertyMap returns the parsed --property entries. Call after Validate.
func (c *Config) PropertyMap() map[string]string {
	props, _ := ParseProperties(c.Environment.Properties)
	return props
}

// Overrides returns the parsed --severity entries. Call after Validate.
func (c *Config) Overrides() severity.Overrides {
	o, _ := ParseSeverityOverrides(c.Checks.Severities)
	return o
}

// ForceEnabled reports whether --force or the prodguard.force property is set.
func (c *Config) ForceEnabled() bool {
	return c.Environment.Force || propertyTrue(c.PropertyMap(), PropertyForce)
}

// PremiumEnabled reports whether --premium or the prodguard.premium.enabled
// property is set.
func (c *Config) PremiumEnabled() bool {
	return c.Checks.Premium || propertyTrue(c.PropertyMap(), PropertyPremiumEnabled)
}

// ReportOnlyEnabled reports whether --report-only or the prodguard.report-only
// property is set.
func (c *Config) ReportOnlyEnabled() bool {
	return c.Environment.ReportOnly || propertyTrue(c.PropertyMap(), PropertyReportOnly)
}

// propertyTrue matches only a case-insensitive "true", the same rule the
// property checks apply.
func propertyTrue(props map[string]string, key string) bool {
	v, ok := props[key]
	return ok && strings.EqualFold(strings.TrimSpace(v), "true")
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseSeverityOverrides parses values of the form "CODE=LEVEL".
//
// Notes:
// - Entries may be provided via repeated flags and/or comma-delimited lists.
// - Codes are upper-cased; they are not checked against the catalog here.
// - LEVEL is one of ERROR, WARN, INFO, DISABLED (WARNING and OFF are accepted).
// - A later entry for the same code wins.
func ParseSeverityOverrides(values []string) (severity.Overrides, error) {
	out := make(severity.Overrides)
	for _, raw := range splitCommaList(values) {
		code, level, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --%s entry %q: expected CODE=LEVEL", flags.FlagSeverity, raw)
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return nil, fmt.Errorf("invalid --%s entry %q: expected non-empty code", flags.FlagSeverity, raw)
		}
		eff, err := severity.ParseEffective(level)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s entry %q: %w", flags.FlagSeverity, raw, err)
		}
		out[code] = eff
	}
	return out, nil
}

// ParseProperties parses values of the form "key=value". Empty values are
// allowed ("key=").
func ParseProperties(values []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, raw := range values {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --%s entry %q: expected key=value", flags.FlagProperty, raw)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid --%s entry %q: expected non-empty key", flags.FlagProperty, raw)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
