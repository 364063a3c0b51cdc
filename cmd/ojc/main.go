// Package main implements the ojc CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ojc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "ojc",
	Short:         "Objective-J to JavaScript compiler",
	Long:          `ojc compiles parsed Objective-J sources to JavaScript for the Objective-J runtime`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Exit codes: 0 success, 1 the sources have errors, 2 bad invocation or an
// internal failure.
const (
	exitOK     = 0
	exitIssues = 1
	exitUsage  = 2
)

// cliError carries the process exit code. A nil err means the reason was
// already printed.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *cliError) Unwrap() error { return e.err }

func exitCode(code int) error { return &cliError{code: code} }

func usageError(err error) error { return &cliError{code: exitUsage, err: err} }

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "only report errors")
	pf.Bool("timings", false, "report phase timings")
	pf.Int("max-diagnostics", 100, "maximum number of issues to show (0 = all)")
	pf.String("trace", "", "write trace events to a file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "ring", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace encoding (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept in memory for crash dumps")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return usageError(err)
		}
		stopProfiles, err := setupProfiling(cmd)
		if err != nil {
			cleanup()
			return usageError(err)
		}
		traceCleanup = func() {
			stopProfiles()
			cleanup()
		}
		return nil
	}
}

// traceCleanup flushes the tracer; it runs even when the command fails,
// which PersistentPostRun would not.
var traceCleanup = func() {}

// main initializes the CLI and maps the command's error to an exit code.
// A panic dumps the in-memory trace before crashing.
func main() {
	rootCmd.Version = version.Version

	defer func() {
		if r := recover(); r != nil {
			dumpTraceRing(os.Stderr)
			panic(r)
		}
	}()

	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	traceCleanup()
	traceCleanup = func() {}
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		if ce.err != nil {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "ojc: %v\n", ce.err)
		}
		return ce.code
	}
	fmt.Fprintf(rootCmd.ErrOrStderr(), "ojc: %v\n", err)
	return exitUsage
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
