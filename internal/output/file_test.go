package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTempFilePath(t *testing.T, pattern string) string {
	t.Helper()

	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	path := tmp.Name()
	_ = tmp.Close()
	return path
}

func TestNewFileSink_InferFormat_FromExtension(t *testing.T) {
	path := newTempFilePath(t, "sink_*.json")
	defer os.Remove(path)

	s, err := NewFileSink(path, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_ = s.Close()
}

func TestNewFileSink_InferFormat_NDJSON_FromExtension(t *testing.T) {
	path := newTempFilePath(t, "sink_*.ndjson")
	defer os.Remove(path)

	s, err := NewFileSink(path, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_ = s.Close()
}

func TestNewFileSink_UnknownExtension_Errors_WhenFormatOmitted(t *testing.T) {
	path := newTempFilePath(t, "sink_*.unknown")
	defer os.Remove(path)

	_, err := NewFileSink(path, "")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "cannot infer output format") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewFileSink_UnsupportedFormat_Errors(t *testing.T) {
	path := newTempFilePath(t, "sink_*.json")
	defer os.Remove(path)

	_, err := NewFileSink(path, "xml")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "unsupported output format") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFileSink_JSON_AggregatesFindings_AndIgnoresEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	s, err := NewFileSink(path, "json")
	if err != nil {
		t.Fatalf("NewFileSink failed: %v", err)
	}

	if err := s.Write(Event{Type: EventRunStarted, RunID: "01J"}); err != nil {
		t.Fatalf("Write event failed: %v", err)
	}
	if err := s.Write(errorFinding("PG-203")); err != nil {
		t.Fatalf("Write finding failed: %v", err)
	}
	if err := s.Write(warnFinding("PG-207")); err != nil {
		t.Fatalf("Write finding failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	var got []Finding
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v\nbody=%s", err, string(b))
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(got))
	}
	if got[0].Code != "PG-203" || got[1].Code != "PG-207" {
		t.Fatalf("unexpected findings order/content: %#v", got)
	}
}

func TestFileSink_JSON_EmptyRunWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	s, err := NewFileSink(path, "")
	if err != nil {
		t.Fatalf("NewFileSink failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	b, _ := os.ReadFile(path)
	if strings.TrimSpace(string(b)) != "[]" {
		t.Fatalf("expected empty array, got %q", string(b))
	}
}

func TestFileSink_NDJSON_StreamsEventsAndFindings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.jsonl")

	s, err := NewFileSink(path, "")
	if err != nil {
		t.Fatalf("NewFileSink failed: %v", err)
	}

	if err := s.Write(Event{Type: EventRunStarted, RunID: "01J", Checks: 9}); err != nil {
		t.Fatalf("Write event failed: %v", err)
	}
	if err := s.Write(errorFinding("PG-203")); err != nil {
		t.Fatalf("Write finding failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 ndjson lines, got %d\nbody=%s", len(lines), string(b))
	}

	var e1 Event
	if err := json.Unmarshal([]byte(lines[0]), &e1); err != nil {
		t.Fatalf("Unmarshal line 1 failed: %v", err)
	}
	if e1.Type != EventRunStarted || e1.Checks != 9 {
		t.Fatalf("unexpected event: %#v", e1)
	}

	var e2 Event
	if err := json.Unmarshal([]byte(lines[1]), &e2); err != nil {
		t.Fatalf("Unmarshal line 2 failed: %v", err)
	}
	if e2.Type != EventCheckFinding || e2.Finding == nil {
		t.Fatalf("unexpected check.finding event: %#v", e2)
	}
	if e2.Code != "PG-203" || e2.RunID != "01J" {
		t.Fatalf("unexpected finding payload: %#v", e2)
	}
}
