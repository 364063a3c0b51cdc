package main

import (
	"fmt"
	"io"
	"strings"

	"ojc/internal/diag"
	"ojc/internal/diagfmt"
	"ojc/internal/driver"
)

type reportFormat string

const (
	reportPretty reportFormat = "pretty"
	reportShort  reportFormat = "short"
	reportJSON   reportFormat = "json"
)

func readReportFormat(value string) (reportFormat, error) {
	switch f := reportFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case reportPretty, reportShort, reportJSON:
		return f, nil
	}
	return "", fmt.Errorf("invalid --diagnostics value %q (expected pretty|short|json)", value)
}

type reportOptions struct {
	format   reportFormat
	color    bool
	quiet    bool
	maxShown int
}

// printIssues renders the issues of s. JSON goes to stdout so it can be
// piped; the human formats go to stderr.
func printIssues(stdout, stderr io.Writer, s *driver.Session, opts reportOptions) error {
	issues := s.Issues()
	if opts.quiet {
		issues = onlyErrors(issues)
	}
	errs, warnings := s.Counts()

	switch opts.format {
	case reportJSON:
		return diagfmt.JSON(stdout, issues, s.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			Max:              opts.maxShown,
			IncludeNotes:     true,
		})
	case reportShort:
		diagfmt.Short(stderr, limit(issues, opts.maxShown), s.FileSet, true)
	default:
		diagfmt.Pretty(stderr, limit(issues, opts.maxShown), s.FileSet, diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   1,
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
		})
	}
	if hidden := len(issues) - len(limit(issues, opts.maxShown)); hidden > 0 {
		fmt.Fprintf(stderr, "... and %d more\n", hidden)
	}
	if len(issues) > 0 || errs > 0 {
		fmt.Fprintln(stderr, diagfmt.Summary(errs, warnings, opts.color))
	}
	return nil
}

// printTimings writes the phase report to stderr: a table for the human
// formats, one JSON line next to --diagnostics=json.
func printTimings(w io.Writer, s *driver.Session, format reportFormat) error {
	report := s.Timings()
	if format == reportJSON {
		return report.WriteJSON(w)
	}
	return report.WriteText(w)
}

func onlyErrors(issues []*diag.Issue) []*diag.Issue {
	out := issues[:0:0]
	for _, is := range issues {
		if is.IsError() {
			out = append(out, is)
		}
	}
	return out
}

func limit(issues []*diag.Issue, n int) []*diag.Issue {
	if n > 0 && len(issues) > n {
		return issues[:n]
	}
	return issues
}
