package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ojc/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new ojc project",
	Long: `Initialize a new ojc project by creating a project manifest (ojc.toml), a src
directory for parser envelopes and a .gitignore for the build output. If
[path|name] is omitted, initializes the current directory. If a non-existing
name is provided, a directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) == 1 {
			target = args[0]
		}
		created, err := initProject(target)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Initialized ojc project in %s\n", displayDir(target))
		for _, name := range created {
			fmt.Fprintf(out, "  - %s\n", name)
		}
		return nil
	},
}

// initProject creates the project skeleton in target and returns what it
// created. An existing ojc.toml is an error; other existing files are kept.
func initProject(target string) ([]string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	if st, err := os.Stat(abs); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", abs, err)
		}
	} else if !st.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", abs)
	}

	manifestPath := filepath.Join(abs, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return nil, fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	name := strings.TrimSpace(filepath.Base(abs))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "ojc-project"
	}
	if err := os.WriteFile(manifestPath, []byte(project.Template(name)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	created := []string{project.ManifestName}

	if err := os.MkdirAll(filepath.Join(abs, "src"), 0o755); err != nil {
		return created, err
	}
	created = append(created, "src/")

	ignorePath := filepath.Join(abs, ".gitignore")
	if _, err := os.Stat(ignorePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(ignorePath, []byte("build/\n"), 0o600); err != nil {
			return created, fmt.Errorf("failed to write .gitignore: %w", err)
		}
		created = append(created, ".gitignore")
	}
	return created, nil
}

func displayDir(target string) string {
	wd, err := os.Getwd()
	if err != nil {
		return target
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return target
	}
	if rel, err := filepath.Rel(wd, abs); err == nil {
		return rel
	}
	return abs
}
