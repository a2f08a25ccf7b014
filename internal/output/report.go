package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// ReportSink renders a Markdown report of one run on Close.
type ReportSink struct {
	path     string
	file     *os.File
	mu       sync.Mutex
	findings []Finding
	started  *Event
	finished *Event
	skipped  *Event
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	return &ReportSink{path: path, file: f}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch t := v.(type) {
	case Finding:
		s.findings = append(s.findings, t)
	case Event:
		e := t
		switch t.Type {
		case EventRunStarted:
			s.started = &e
		case EventRunFinished:
			s.finished = &e
		case EventRunSkipped:
			s.skipped = &e
		}
	}
	return nil
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.file.WriteString(s.render())
	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func (s *ReportSink) render() string {
	var b strings.Builder
	b.WriteString("# Prod-Guard Report\n\n")

	if s.started != nil && s.started.RunID != "" {
		fmt.Fprintf(&b, "Run: `%s`\n\n", s.started.RunID)
	}

	if s.skipped != nil {
		fmt.Fprintf(&b, "Checks were not executed: %s.\n", s.skipped.Reason)
		return b.String()
	}

	counts := map[string]int{}
	for _, f := range s.findings {
		counts[f.Severity]++
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| | |\n| --- | --- |\n")
	if s.finished != nil {
		fmt.Fprintf(&b, "| Decision | **%s** |\n", s.finished.Decision)
	}
	if s.started != nil {
		fmt.Fprintf(&b, "| Checks executed | %d |\n", s.started.Checks)
	}
	fmt.Fprintf(&b, "| Findings | %d |\n", len(s.findings))
	for _, sev := range []string{"ERROR", "WARN", "INFO"} {
		fmt.Fprintf(&b, "| %s | %d |\n", sev, counts[sev])
	}
	b.WriteString("\n")

	if len(s.findings) == 0 {
		b.WriteString("No issues detected.\n")
		return b.String()
	}

	ordered := make([]Finding, len(s.findings))
	copy(ordered, s.findings)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ri, rj := severityRank(ordered[i].Severity), severityRank(ordered[j].Severity); ri != rj {
			return ri < rj
		}
		return ordered[i].Code < ordered[j].Code
	})

	b.WriteString("## Findings\n\n")
	b.WriteString("| Severity | Code | Check | Message | Kind |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, f := range ordered {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			f.Severity, f.Code, escapeCell(f.Title), escapeCell(f.Message), f.Kind)
	}
	b.WriteString("\n")

	b.WriteString("## Remediation\n\n")
	for _, f := range ordered {
		if f.Remediation == "" {
			continue
		}
		fmt.Fprintf(&b, "- **%s**: %s\n", f.Code, f.Remediation)
	}
	return b.String()
}

func severityRank(sev string) int {
	switch sev {
	case "ERROR":
		return 0
	case "WARN":
		return 1
	case "INFO":
		return 2
	default:
		return 3
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
