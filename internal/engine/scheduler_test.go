package engine

import (
	"context"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

type countingCheck struct {
	code    string
	active  *atomic.Int32
	maxSeen *atomic.Int32
	calls   *atomic.Int32
}

func (c *countingCheck) Descriptor() checks.Descriptor {
	return checks.Descriptor{Code: c.code, DefaultSeverity: severity.LevelInfo}
}

func (c *countingCheck) Evaluate(ctx context.Context, rc appctx.Context) (checks.Result, bool) {
	c.calls.Add(1)
	n := c.active.Add(1)
	for {
		m := c.maxSeen.Load()
		if n <= m || c.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	c.active.Add(-1)
	return checks.Violation(c.Descriptor(), c.code, ""), true
}

func TestNewScheduler_RejectsInvalidConcurrency(t *testing.T) {
	if _, err := NewScheduler(0, nil); err == nil {
		t.Fatalf("expected error for concurrency 0")
	}
}

func TestScheduler_Execute_BoundedAndOrdered(t *testing.T) {
	var active, maxSeen, calls atomic.Int32
	var list []checks.Check
	var want []string
	for _, code := range []string{"C-1", "C-2", "C-3", "C-4", "C-5", "C-6"} {
		list = append(list, &countingCheck{code: code, active: &active, maxSeen: &maxSeen, calls: &calls})
		want = append(want, code)
	}

	s, err := NewScheduler(2, nil)
	if err != nil {
		t.Fatalf("NewScheduler() error: %v", err)
	}
	outcomes, err := s.Execute(context.Background(), list, appctx.NewMapContext(0, nil, nil))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if calls.Load() != int32(len(list)) {
		t.Fatalf("calls = %d, want %d", calls.Load(), len(list))
	}
	if maxSeen.Load() > 2 {
		t.Fatalf("observed %d concurrent checks, limit is 2", maxSeen.Load())
	}

	var got []string
	for _, o := range outcomes {
		if !o.Found {
			t.Fatalf("outcome %s not found", o.Descriptor.Code)
		}
		got = append(got, o.Result.Message)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("outcomes out of order: got %v want %v", got, want)
	}
}

func TestScheduler_Execute_RecordsPropertiesRead(t *testing.T) {
	c := &fixedCheck{
		desc: descProp,
		eval: func(_ context.Context, rc appctx.Context) (checks.Result, bool) {
			rc.Property("b.key")
			rc.Property("a.key")
			return checks.Result{}, false
		},
	}
	s, _ := NewScheduler(1, nil)
	outcomes, err := s.Execute(context.Background(), []checks.Check{c}, appctx.NewMapContext(0, nil, nil))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if want := []string{"a.key", "b.key"}; !reflect.DeepEqual(outcomes[0].Properties, want) {
		t.Fatalf("properties = %v, want %v", outcomes[0].Properties, want)
	}
}

func TestScheduler_Execute_CanceledContextStillRunsEveryCheck(t *testing.T) {
	var active, maxSeen, calls atomic.Int32
	list := []checks.Check{
		&countingCheck{code: "C-1", active: &active, maxSeen: &maxSeen, calls: &calls},
		&countingCheck{code: "C-2", active: &active, maxSeen: &maxSeen, calls: &calls},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, _ := NewScheduler(1, nil)
	outcomes, err := s.Execute(ctx, list, nil)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(outcomes) != 2 || calls.Load() != 2 {
		t.Fatalf("expected both checks evaluated, got %d outcomes and %d calls", len(outcomes), calls.Load())
	}
}

func TestScheduler_Execute_RejectsNilCheck(t *testing.T) {
	s, _ := NewScheduler(1, nil)
	if _, err := s.Execute(context.Background(), []checks.Check{nil}, nil); err == nil {
		t.Fatalf("expected error for nil check")
	}
}

func TestScheduler_Execute_NilCheckStartsNothing(t *testing.T) {
	var active, maxSeen, calls atomic.Int32
	first := &countingCheck{code: "C-1", active: &active, maxSeen: &maxSeen, calls: &calls}

	s, _ := NewScheduler(2, nil)
	if _, err := s.Execute(context.Background(), []checks.Check{first, nil}, appctx.NewMapContext(0, nil, nil)); err == nil {
		t.Fatalf("expected error for nil check")
	}
	time.Sleep(30 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Fatalf("checks before the nil entry ran %d time(s), want 0", n)
	}
}
