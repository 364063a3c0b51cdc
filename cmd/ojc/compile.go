package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ojc/internal/driver"
	"ojc/internal/project"
	"ojc/internal/trace"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] [envelopes or directories...]",
	Short: "Compile parsed Objective-J files to JavaScript",
	Long: `Compile reads parser envelopes (*.j.json), checks them against each other and
writes one .oj file per source. Without arguments the sources listed in ojc.toml
are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, args, true)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [flags] [envelopes or directories...]",
	Short: "Report errors and warnings without writing output",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, args, false)
	},
}

func init() {
	registerCompileFlags(compileCmd)
	registerCompileFlags(checkCmd)
}

func runSession(cmd *cobra.Command, args []string, write bool) error {
	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, cmd.Name())
	defer span.End("")

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return usageError(err)
	}
	report, err := reportOptionsFor(cmd)
	if err != nil {
		return usageError(err)
	}
	uiValue, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode("ui", uiValue)
	if err != nil {
		return usageError(err)
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")

	paths, err := project.Discover(cfg.roots)
	if err != nil {
		return err
	}
	cache, err := openCache(cmd, cfg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "ojc: registry cache disabled: %v\n", err)
	}

	var (
		s       *driver.Session
		written int
	)
	work := func(ctx context.Context, sink driver.ProgressSink) error {
		s = driver.NewSession(driver.Options{
			Compiler: cfg.opts,
			Jobs:     jobs,
			Cache:    cache,
			Progress: sink,
		})
		s.FileSet.SetBaseDir(cfg.baseDir)
		if err := s.Run(ctx, cfg.prelude, paths); err != nil {
			return err
		}
		if write {
			written = s.WriteOutputs(ctx)
		}
		return nil
	}

	if shouldUseTUI(mode) && len(paths) > 1 && report.format != reportJSON {
		err = runWithUI(ctx, "ojc "+cmd.Name(), paths, work)
	} else {
		err = work(ctx, nil)
	}
	if err != nil && !errors.Is(err, driver.ErrNoSources) {
		return err
	}

	if perr := printIssues(cmd.OutOrStdout(), cmd.ErrOrStderr(), s, report); perr != nil {
		return perr
	}
	if timings {
		if terr := printTimings(cmd.ErrOrStderr(), s, report.format); terr != nil {
			return terr
		}
	}
	if s.HasErrors() {
		return exitCode(exitIssues)
	}
	if write && !report.quiet && report.format != reportJSON {
		fmt.Fprintf(cmd.ErrOrStderr(), "compiled %d files, wrote %d\n", len(s.Results()), written)
	}
	return nil
}

func reportOptionsFor(cmd *cobra.Command) (reportOptions, error) {
	value, _ := cmd.Flags().GetString("diagnostics")
	format, err := readReportFormat(value)
	if err != nil {
		return reportOptions{}, err
	}
	root := cmd.Root().PersistentFlags()
	quiet, _ := root.GetBool("quiet")
	maxShown, _ := root.GetInt("max-diagnostics")
	colorValue, _ := root.GetString("color")
	useColor, err := setupColor(colorValue)
	if err != nil {
		return reportOptions{}, err
	}
	return reportOptions{format: format, color: useColor, quiet: quiet, maxShown: maxShown}, nil
}

// openCache returns nil when there is no prelude or caching is off.
func openCache(cmd *cobra.Command, cfg *sessionConfig) (*driver.DiskCache, error) {
	noCache, _ := cmd.Flags().GetBool("no-cache")
	drop, _ := cmd.Flags().GetBool("clear-cache")
	if noCache || (len(cfg.prelude) == 0 && !drop) {
		return nil, nil
	}
	cache, err := driver.OpenDiskCache("ojc")
	if err != nil {
		return nil, err
	}
	if drop {
		if err := cache.DropAll(); err != nil {
			return nil, err
		}
	}
	return cache, nil
}
