package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "prodguard/internal/checks/free"
	_ "prodguard/internal/checks/premium"
	"prodguard/internal/config"
	"prodguard/internal/flags"
)

type runOutcome struct {
	code   int
	stdout string
	stderr string
}

// execRun runs a fresh run command in-process with its own config.
func execRun(t *testing.T, args ...string) runOutcome {
	t.Helper()
	t.Setenv(flags.EnvProfilesActive, "")

	code := -1
	cmd := newRunCmd(config.New(), func(c int) { code = c })
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	return runOutcome{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestRun_ExitCode3_OnInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"console format", []string{"--console-format", "xml"}, "--console-format"},
		{"out format", []string{"--out", "results.unknown"}, "cannot infer output format"},
		{"severity syntax", []string{"--severity", "PG-005"}, "--severity"},
		{"unknown severity", []string{"--severity", "PG-005=FATAL"}, "unknown severity"},
		{"port range", []string{"--port", "70000"}, "--port"},
		{"missing config", []string{"--config", filepath.Join(os.TempDir(), "does-not-exist.yaml")}, "failed to read config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := execRun(t, tt.args...)
			if out.code != 3 {
				t.Fatalf("exit code = %d, want 3; stderr=%s", out.code, out.stderr)
			}
			if !strings.Contains(out.stderr, "Error: ") || !strings.Contains(out.stderr, tt.want) {
				t.Fatalf("expected error mentioning %q; stderr=%s", tt.want, out.stderr)
			}
		})
	}
}

func TestRun_SkipsWithoutProdProfile(t *testing.T) {
	out := execRun(t, "--profile", "dev", "--checks", "PG-005")
	if out.code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr=%s", out.code, out.stderr)
	}
	if !strings.Contains(out.stdout, "prod-guard skipped:") {
		t.Fatalf("expected skip line; stdout=%s", out.stdout)
	}
	if !strings.Contains(out.stderr, "prod profile not active") {
		t.Fatalf("expected skip log; stderr=%s", out.stderr)
	}
}

func TestRun_BlockingFindingExitsWith1(t *testing.T) {
	out := execRun(t, "--profile", "prod", "--checks", "PG-005")
	if out.code != 1 {
		t.Fatalf("exit code = %d, want 1; stderr=%s", out.code, out.stderr)
	}
	if !strings.Contains(out.stdout, "[ERROR] PG-005") {
		t.Fatalf("expected finding line; stdout=%s", out.stdout)
	}
	if !strings.Contains(out.stderr, "prod-guard detected blocking issues: PG-005") {
		t.Fatalf("expected blocking message; stderr=%s", out.stderr)
	}
}

func TestRun_ReportOnlyAndOverrides(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		notStdout  string
	}{
		{
			name:       "report-only flag",
			args:       []string{"--force", "--checks", "PG-005", "--report-only"},
			wantCode:   0,
			wantStdout: "decision continue-report-only",
		},
		{
			name:       "report-only property",
			args:       []string{"--force", "--checks", "PG-005", "--property", "prodguard.report-only=true"},
			wantCode:   0,
			wantStdout: "decision continue-report-only",
		},
		{
			name:      "disabled override",
			args:      []string{"--force", "--checks", "PG-005", "--severity", "PG-005=OFF"},
			wantCode:  0,
			notStdout: "PG-005",
		},
		{
			name:       "downgraded override",
			args:       []string{"--force", "--checks", "PG-005", "--severity", "pg-005=warn"},
			wantCode:   0,
			wantStdout: "[WARN] PG-005",
		},
		{
			name:       "property satisfies check",
			args:       []string{"--force", "--checks", "PG-004,PG-005", "--property", "server.ssl.enabled=true", "--property", "management.endpoints.web.exposure.include=health,info"},
			wantCode:   0,
			wantStdout: "0 finding(s)",
		},
		{
			name:       "wildcard exposure",
			args:       []string{"--force", "--checks", "PG-004", "--property", "management.endpoints.web.exposure.include=health,*"},
			wantCode:   1,
			wantStdout: "[ERROR] PG-004",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := execRun(t, tt.args...)
			if out.code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d; stdout=%s stderr=%s", out.code, tt.wantCode, out.stdout, out.stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(out.stdout, tt.wantStdout) {
				t.Fatalf("expected stdout to contain %q; stdout=%s", tt.wantStdout, out.stdout)
			}
			if tt.notStdout != "" && strings.Contains(out.stdout, tt.notStdout) {
				t.Fatalf("expected stdout NOT to contain %q; stdout=%s", tt.notStdout, out.stdout)
			}
		})
	}
}

func TestRun_ConfigFileAndFlagPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prodguard.yaml")
	content := "profiles: [prod]\nseverities:\n  PG-005: WARN\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out := execRun(t, "--config", path, "--checks", "PG-005")
	if out.code != 0 || !strings.Contains(out.stdout, "[WARN] PG-005") {
		t.Fatalf("file override not applied: code=%d stdout=%s stderr=%s", out.code, out.stdout, out.stderr)
	}

	out = execRun(t, "--config", path, "--checks", "PG-005", "--severity", "PG-005=ERROR")
	if out.code != 1 {
		t.Fatalf("flag override must win over file: code=%d stdout=%s", out.code, out.stdout)
	}

	out = execRun(t, "--config", path, "--checks", "PG-005", "--profile", "dev")
	if out.code != 0 || !strings.Contains(out.stdout, "prod-guard skipped:") {
		t.Fatalf("--profile must win over file profiles: code=%d stdout=%s", out.code, out.stdout)
	}
}

func TestRun_ProfilesFromEnvironment(t *testing.T) {
	t.Setenv(flags.EnvProfilesActive, "canary,prod")

	code := -1
	cmd := newRunCmd(config.New(), func(c int) { code = c })
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--checks", "PG-005"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if code != 1 {
		t.Fatalf("exit code = %d, want 1 (prod from environment); stdout=%s", code, stdout.String())
	}
}

func TestRun_PremiumGating(t *testing.T) {
	out := execRun(t, "--force", "--checks", "PG-203")
	if out.code != 3 || !strings.Contains(out.stderr, "requires the premium tier") {
		t.Fatalf("expected premium tier error: code=%d stderr=%s", out.code, out.stderr)
	}

	out = execRun(t, "--force", "--premium", "--checks", "PG-203,PG-207")
	if out.code != 1 {
		t.Fatalf("exit code = %d, want 1; stdout=%s", out.code, out.stdout)
	}
	if !strings.Contains(out.stdout, "Cannot verify") {
		t.Fatalf("expected port verification failures; stdout=%s", out.stdout)
	}
}

func TestRun_NoConsoleWithEmit(t *testing.T) {
	out := execRun(t, "--force", "--checks", "PG-005", "--report-only", "--no-console", "--emit", "ndjson")
	if out.code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr=%s", out.code, out.stderr)
	}
	lines := strings.Split(strings.TrimSpace(out.stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 ndjson events, got %d: %s", len(lines), out.stdout)
	}
	if !strings.Contains(lines[1], `"type":"check.finding"`) || !strings.Contains(lines[1], `"code":"PG-005"`) {
		t.Fatalf("unexpected finding event: %s", lines[1])
	}
}

func TestRun_WritesReportAndOutFile(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "report.md")
	outFile := filepath.Join(dir, "findings.json")

	out := execRun(t, "--force", "--checks", "PG-005", "--report-only", "--report", report, "--out", outFile)
	if out.code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr=%s", out.code, out.stderr)
	}

	md, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(md), "# Prod-Guard Report") || !strings.Contains(string(md), "PG-005") {
		t.Fatalf("unexpected report:\n%s", md)
	}

	js, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read out file: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(js)), "[") || !strings.Contains(string(js), `"code": "PG-005"`) {
		t.Fatalf("unexpected out file:\n%s", js)
	}
}

func TestRun_JSONLogs(t *testing.T) {
	out := execRun(t, "--force", "--checks", "PG-005", "--log-format", "json")
	if out.code != 1 {
		t.Fatalf("exit code = %d, want 1", out.code)
	}
	if !strings.Contains(out.stderr, `"code":"PG-005"`) || !strings.Contains(out.stderr, `"component":"prod-guard"`) {
		t.Fatalf("expected JSON finding log; stderr=%s", out.stderr)
	}
}
