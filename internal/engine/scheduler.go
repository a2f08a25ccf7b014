package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/logging"
)

const panicRemediation = "Report this failure to the prod-guard maintainers"

// Outcome is what one check evaluation produced.
type Outcome struct {
	Descriptor checks.Descriptor
	Result     checks.Result
	// Found is false when the check passed or did not apply.
	Found bool
	// Properties lists the configuration keys the check read.
	Properties []string
	Duration   time.Duration
}

type Scheduler struct {
	concurrency int
	logger      *slog.Logger
}

func NewScheduler(concurrency int, logger *slog.Logger) (*Scheduler, error) {
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scheduler{concurrency: concurrency, logger: logger}, nil
}

// Execute evaluates every check exactly once against rc and returns the
// outcomes in input order.
//
// Semantics:
//   - At most concurrency checks run at the same time.
//   - Execute waits for all of them; there is no early abort.
//   - Cancellation of ctx is observed by the checks themselves (through their
//     probe), so a canceled run still yields one outcome per check.
//   - A panicking check yields a verification failure instead of crashing.
func (s *Scheduler) Execute(ctx context.Context, list []checks.Check, rc appctx.Context) ([]Outcome, error) {
	if s == nil {
		return nil, errors.New("scheduler is nil")
	}
	if ctx == nil {
		return nil, errors.New("context is nil")
	}

	for i, c := range list {
		if c == nil {
			return nil, fmt.Errorf("check at position %d is nil", i)
		}
	}

	outcomes := make([]Outcome, len(list))
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, c := range list {
		i, c := i, c
		g.Go(func() error {
			outcomes[i] = s.evaluate(ctx, c, rc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (s *Scheduler) evaluate(ctx context.Context, c checks.Check, rc appctx.Context) (out Outcome) {
	desc := c.Descriptor()
	tracked := appctx.NewTrackingContext(rc)
	start := time.Now()
	out.Descriptor = desc

	defer func() {
		out.Duration = time.Since(start)
		out.Properties = tracked.AccessedKeys()
		if p := recover(); p != nil {
			s.logger.Error("check panicked", "code", desc.Code, "panic", fmt.Sprint(p))
			out.Result = checks.VerificationFailure(desc, fmt.Sprintf("Check %s failed unexpectedly: %v", desc.Code, p), panicRemediation)
			out.Found = true
		}
		s.logger.Debug("check evaluated",
			"code", desc.Code,
			"found", out.Found,
			"properties", out.Properties,
			"duration", out.Duration,
		)
	}()

	out.Result, out.Found = c.Evaluate(ctx, tracked)
	return out
}
