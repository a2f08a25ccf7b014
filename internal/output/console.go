package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

type ConsoleSink struct {
	writer            io.Writer
	format            string // "text", "json", "ndjson"
	mu                sync.Mutex
	findings          []Finding // For JSON array output
	allowedSeverities map[string]bool
	colors            palette
	run               runTracker
}

type ConsoleOption func(*ConsoleSink)

// WithColor turns severity coloring on or off for text output.
func WithColor(enabled bool) ConsoleOption {
	return func(s *ConsoleSink) { s.colors = newPalette(enabled) }
}

func NewConsoleSink(w io.Writer, format string, filterSeverities []string, opts ...ConsoleOption) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
		colors: newPalette(false),
	}

	if len(filterSeverities) > 0 {
		s.allowedSeverities = make(map[string]bool)
		for _, sev := range filterSeverities {
			s.allowedSeverities[strings.ToUpper(sev)] = true
		}
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	s.run.observe(v)

	if len(s.allowedSeverities) > 0 {
		if f, ok := v.(Finding); ok && !s.allowedSeverities[f.Severity] {
			return nil
		}
	}

	switch s.format {
	case "json":
		f, ok := v.(Finding)
		if !ok {
			// Ignore lifecycle events in JSON console mode.
			return nil
		}
		s.findings = append(s.findings, f)
		return nil
	case "ndjson":
		e, ok := s.run.streamed(v)
		if !ok {
			return nil
		}
		if err := json.NewEncoder(s.writer).Encode(e); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	case "text":
		if err := s.writeText(v); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) writeText(v any) error {
	switch t := v.(type) {
	case Finding:
		tag := s.colors.sprint(t.Severity, "["+t.Severity+"]")
		if _, err := fmt.Fprintf(s.writer, "%s %s %s\n", tag, t.Code, t.Message); err != nil {
			return err
		}
		if t.Remediation != "" {
			if _, err := fmt.Fprintf(s.writer, "        fix: %s\n", t.Remediation); err != nil {
				return err
			}
		}
	case Event:
		switch t.Type {
		case EventRunSkipped:
			_, err := fmt.Fprintf(s.writer, "prod-guard skipped: %s\n", t.Reason)
			return err
		case EventRunFinished:
			_, err := fmt.Fprintf(s.writer, "prod-guard: %d finding(s), %d blocking, decision %s\n", t.Findings, t.Blocking, t.Decision)
			return err
		}
	}
	return nil
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		findings := s.findings
		if findings == nil {
			findings = []Finding{}
		}
		if err := encoder.Encode(findings); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
