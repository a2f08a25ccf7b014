package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type FileSink struct {
	path     string
	format   string
	file     *os.File
	mu       sync.Mutex
	findings []Finding
	run      runTracker
}

// InferFileFormat maps an output file extension to a format.
func InferFileFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return "json", nil
	case ".ndjson", ".jsonl":
		return "ndjson", nil
	case "":
		return "", fmt.Errorf("cannot infer output format from file extension (missing extension)")
	default:
		return "", fmt.Errorf("cannot infer output format from file extension %q", ext)
	}
}

func NewFileSink(path string, format string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("output path required")
	}

	if format == "" {
		inferred, err := InferFileFormat(path)
		if err != nil {
			return nil, err
		}
		format = inferred
	}

	if format != "json" && format != "ndjson" {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &FileSink{
		path:   path,
		format: format,
		file:   f,
	}, nil
}

func (s *FileSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run.observe(v)

	switch s.format {
	case "json":
		if f, ok := v.(Finding); ok {
			s.findings = append(s.findings, f)
		}
		return nil
	case "ndjson":
		e, ok := s.run.streamed(v)
		if !ok {
			return nil
		}
		return json.NewEncoder(s.file).Encode(e)
	}
	return nil
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.format == "json" {
		encoder := json.NewEncoder(s.file)
		encoder.SetIndent("", "  ")
		findings := s.findings
		if findings == nil {
			findings = []Finding{}
		}
		err = encoder.Encode(findings)
	}

	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
