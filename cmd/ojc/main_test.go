package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDebuggerEnvelope(t *testing.T, dir string) {
	t.Helper()
	src := "debugger;\n"
	data, err := json.Marshal(map[string]any{
		"path":   "a.j",
		"source": src,
		"program": map[string]any{
			"type": "Program", "start": 0, "end": len(src),
			"body": []any{
				map[string]any{"type": "DebuggerStatement", "start": 0, "end": 9},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.j.json"), data, 0o600); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	code := run(context.Background())
	return code, stdout.String() + stderr.String()
}

func TestCheckCompileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.Mkdir("src", 0o755); err != nil {
		t.Fatal(err)
	}
	writeDebuggerEnvelope(t, "src")

	code, out := execute(t, "check", "--color", "off", "--ui", "off", "--diagnostics", "short", "src")
	if code != exitOK {
		t.Fatalf("check exit = %d, output:\n%s", code, out)
	}
	if !strings.Contains(out, "warning SEM3016 a.j:1:1 debugger statement") {
		t.Fatalf("missing debugger warning:\n%s", out)
	}
	if !strings.Contains(out, "0 errors, 1 warning") {
		t.Fatalf("missing summary:\n%s", out)
	}
	if _, err := os.Stat("a.oj"); err == nil {
		t.Fatal("check must not write output")
	}

	code, out = execute(t, "compile", "--color", "off", "--ui", "off", "--quiet", "-o", "build", "src")
	if code != exitOK {
		t.Fatalf("compile exit = %d, output:\n%s", code, out)
	}
	if _, err := os.Stat(filepath.Join("build", "a.oj")); err != nil {
		t.Fatalf("output not written: %v", err)
	}

	if err := os.WriteFile(filepath.Join("src", "b.j.json"), []byte(`{"path": `), 0o600); err != nil {
		t.Fatal(err)
	}
	code, out = execute(t, "check", "--color", "off", "--ui", "off", "--diagnostics", "short", "src")
	if code != exitIssues {
		t.Fatalf("broken envelope must fail the run, exit = %d\n%s", code, out)
	}
	if !strings.Contains(out, "INP2002") {
		t.Fatalf("missing malformed tree error:\n%s", out)
	}
}

func TestUnknownEnvironmentIsUsageError(t *testing.T) {
	t.Chdir(t.TempDir())
	code, out := execute(t, "check", "--env", "deno", "--ui", "off", ".")
	if code != exitUsage {
		t.Fatalf("exit = %d, want %d\n%s", code, exitUsage, out)
	}
	if !strings.Contains(out, "deno") {
		t.Fatalf("error should name the environment:\n%s", out)
	}
}

func TestTimingsReportedOutsideDiagnostics(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeDebuggerEnvelope(t, ".")
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("timings", "false") })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"check", "--timings", "--ui", "off", "--diagnostics", "json", "."})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	if code := run(context.Background()); code != exitOK {
		t.Fatalf("exit = %d\n%s%s", code, stdout.String(), stderr.String())
	}

	var issues struct {
		Count  int `json:"count"`
		Issues []struct {
			Code string `json:"code"`
		} `json:"issues"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &issues); err != nil {
		t.Fatalf("stdout is not the issue document: %v\n%s", err, stdout.String())
	}
	if issues.Count != 1 || issues.Issues[0].Code != "SEM3016" {
		t.Fatalf("timings leaked into the issues: %s", stdout.String())
	}

	var report struct {
		Files  int `json:"files"`
		Phases []struct {
			Name string `json:"name"`
		} `json:"phases"`
	}
	if err := json.Unmarshal(stderr.Bytes(), &report); err != nil {
		t.Fatalf("stderr is not a timing report: %v\n%s", err, stderr.String())
	}
	if report.Files != 1 || len(report.Phases) == 0 || report.Phases[0].Name != "load" {
		t.Fatalf("unexpected report %s", stderr.String())
	}
}
