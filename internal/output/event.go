package output

const (
	EventRunStarted   = "run.started"
	EventRunSkipped   = "run.skipped"
	EventCheckFinding = "check.finding"
	EventRunFinished  = "run.finished"
)

// Event is a lifecycle record for NDJSON streaming output.
//
// JSON mode remains an aggregate of Finding values.
type Event struct {
	Type  string `json:"type"`
	RunID string `json:"run_id,omitempty"`
	*Finding
	Checks   int    `json:"checks,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Findings int    `json:"findings,omitempty"`
	Blocking int    `json:"blocking,omitempty"`
	Decision string `json:"decision,omitempty"`
	ExitCode int    `json:"exit_code,omitempty"`
}

func eventFromFinding(runID string, f Finding) Event {
	return Event{Type: EventCheckFinding, RunID: runID, Finding: &f}
}

// runTracker remembers the run id announced by run.started so that findings
// streamed afterwards carry it too.
type runTracker struct {
	runID string
}

func (t *runTracker) observe(v any) {
	if e, ok := v.(Event); ok && e.Type == EventRunStarted {
		t.runID = e.RunID
	}
}

// streamed returns the NDJSON record for v, or false when v is not
// streamable.
func (t *runTracker) streamed(v any) (Event, bool) {
	switch x := v.(type) {
	case Event:
		return x, true
	case Finding:
		return eventFromFinding(t.runID, x), true
	default:
		return Event{}, false
	}
}
