package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/oklog/ulid/v2"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/config"
	"prodguard/internal/logging"
	"prodguard/internal/output"
	"prodguard/internal/probe"
	"prodguard/internal/severity"
)

// Decision is the outcome of a pass.
type Decision string

const (
	DecisionContinue           Decision = "continue"
	DecisionContinueReportOnly Decision = "continue-report-only"
	DecisionAbort              Decision = "abort"
)

// ErrBlockingIssues is wrapped by every *BlockingError.
var ErrBlockingIssues = errors.New("prod-guard detected blocking issues")

// BlockingError is returned by Run when at least one ERROR finding remains
// and report-only is off.
type BlockingError struct {
	Codes []string
}

func (e *BlockingError) Error() string {
	if e == nil || len(e.Codes) == 0 {
		return ErrBlockingIssues.Error()
	}
	return fmt.Sprintf("%s: %s", ErrBlockingIssues, strings.Join(e.Codes, ", "))
}

func (e *BlockingError) Unwrap() error {
	return ErrBlockingIssues
}

// ExitCode maps the error returned by Run to the process exit status.
func ExitCode(err error) int {
	return exitCodeForRun(err != nil && !errors.Is(err, ErrBlockingIssues), errors.Is(err, ErrBlockingIssues))
}

func exitCodeForRun(fatal, blocking bool) int {
	// Exit code contract:
	// 0 = continue (including report-only and a skipped run)
	// 1 = abort, blocking findings detected
	// 3 = fatal error (checks did not run)
	if fatal {
		return 3
	}
	if blocking {
		return 1
	}
	return 0
}

// Summary describes a completed pass.
type Summary struct {
	RunID    string
	Skipped  bool
	Executed int
	Findings []output.Finding
	Blocking int
	Decision Decision
}

type Runner struct {
	probe  probe.Probe
	logger *slog.Logger
	stdout io.Writer
}

type RunnerOption func(*Runner)

func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithStdout redirects the console and emit sinks.
func WithStdout(w io.Writer) RunnerOption {
	return func(r *Runner) {
		if w != nil {
			r.stdout = w
		}
	}
}

func NewRunner(p probe.Probe, opts ...RunnerOption) *Runner {
	r := &Runner{
		probe:  p,
		logger: logging.Discard(),
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func setupOutputManager(cfg *config.Config, stdout io.Writer) (*output.Manager, error) {
	var sinks []output.Sink
	fail := func(err error) (*output.Manager, error) {
		for _, s := range sinks {
			_ = s.Close()
		}
		return nil, err
	}

	// Console Sink
	if !cfg.Output.NoConsole {
		sinks = append(sinks, output.NewConsoleSink(stdout, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterSeverity,
			output.WithColor(output.ColorEnabled(stdout))))
	}

	// Emit Sinks (additional structured streams)
	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(stdout, emit)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, es)
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, fs)
	}

	// Report Sink
	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, rs)
	}

	outMgr, err := output.NewManager(sinks...)
	if err != nil {
		return fail(err)
	}
	return outMgr, nil
}

// Run performs one pass: gate, execute, aggregate, decide.
//
// The returned error is nil for Continue and ContinueReportOnly, a
// *BlockingError for Abort, and any other error for setup failures.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (Summary, error) {
	if r == nil {
		return Summary{}, errors.New("runner is nil")
	}
	if cfg == nil {
		return Summary{}, errors.New("config is nil")
	}
	if cfg.Runtime.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Runtime.Timeout)
		defer cancel()
	}

	sum := Summary{RunID: ulid.Make().String(), Decision: DecisionContinue}
	log := r.logger.With("run_id", sum.RunID)

	rc := appctx.NewMapContext(cfg.Target.Port, cfg.PropertyMap(), cfg.Environment.Profiles)
	deps := checks.Deps{
		Probe: r.probe,
		Target: checks.Target{
			Host:        cfg.Target.Host,
			Path:        cfg.Target.Path,
			HeadersPath: cfg.Target.HeadersPath,
		},
	}
	plan, err := NewRunPlan(cfg, deps, rc)
	if err != nil {
		return sum, err
	}

	scheduler, err := NewScheduler(cfg.Runtime.Concurrency, log)
	if err != nil {
		return sum, err
	}

	outMgr, err := setupOutputManager(cfg, r.stdout)
	if err != nil {
		return sum, fmt.Errorf("failed to create output sinks: %w", err)
	}
	defer func() {
		if err := outMgr.Close(); err != nil {
			log.Warn("failed to close output sinks", "error", err)
		}
	}()

	r.write(log, outMgr, output.Event{Type: output.EventRunStarted, RunID: sum.RunID, Checks: len(plan.Checks)})

	if plan.Skipped() {
		log.Info("[prod-guard] " + plan.SkipReason + " -> skipping checks")
		sum.Skipped = true
		r.write(log, outMgr, output.Event{Type: output.EventRunSkipped, RunID: sum.RunID, Reason: plan.SkipReason})
		r.write(log, outMgr, output.Event{Type: output.EventRunFinished, RunID: sum.RunID, Decision: string(sum.Decision)})
		return sum, nil
	}

	if plan.Premium {
		log.Info("[prod-guard] premium security checks enabled")
	}
	log.Debug("executing checks", "count", len(plan.Checks), "concurrency", cfg.Runtime.Concurrency)

	outcomes, err := scheduler.Execute(ctx, plan.Checks, rc)
	if err != nil {
		return sum, fmt.Errorf("failed to execute checks: %w", err)
	}
	sum.Executed = len(outcomes)

	resolver := severity.NewResolver(cfg.Overrides())
	for _, code := range resolver.UnknownCodes(isKnownCheck) {
		log.Warn("severity override for unknown check code is ignored", "code", code)
	}

	findings, blocking := aggregate(outcomes, resolver)
	sum.Findings = findings
	var blockingCodes []string
	for _, f := range findings {
		log.Log(ctx, logLevelFor(f.Severity), "[prod-guard] finding",
			"severity", f.Severity,
			"code", f.Code,
			"message", f.Message,
			"remediation", f.Remediation,
			"kind", f.Kind,
		)
		r.write(log, outMgr, f)
	}
	for _, f := range blocking {
		blockingCodes = append(blockingCodes, f.Code)
	}
	sum.Blocking = len(blocking)

	if len(findings) == 0 {
		log.Info("[prod-guard] no issues detected")
	}

	var runErr error
	switch {
	case sum.Blocking == 0:
		sum.Decision = DecisionContinue
	case cfg.ReportOnlyEnabled():
		sum.Decision = DecisionContinueReportOnly
		log.Warn("[prod-guard] report-only mode enabled, application will continue to start", "blocking", sum.Blocking)
	default:
		sum.Decision = DecisionAbort
		runErr = &BlockingError{Codes: blockingCodes}
	}

	r.write(log, outMgr, output.Event{
		Type:     output.EventRunFinished,
		RunID:    sum.RunID,
		Checks:   sum.Executed,
		Findings: len(findings),
		Blocking: sum.Blocking,
		Decision: string(sum.Decision),
		ExitCode: ExitCode(runErr),
	})
	return sum, runErr
}

func (r *Runner) write(log *slog.Logger, m *output.Manager, v any) {
	if err := m.Write(v); err != nil {
		log.Warn("failed to write output", "error", err)
	}
}

func isKnownCheck(code string) bool {
	_, ok := checks.Lookup(code)
	return ok
}

func logLevelFor(sev string) slog.Level {
	switch severity.Effective(sev) {
	case severity.EffectiveError:
		return slog.LevelError
	case severity.EffectiveWarn:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
