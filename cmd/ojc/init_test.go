package main

import (
	"os"
	"path/filepath"
	"testing"

	"ojc/internal/project"
)

func TestInitProject(t *testing.T) {
	target := filepath.Join(t.TempDir(), "demo")
	created, err := initProject(target)
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 3 {
		t.Fatalf("created = %v", created)
	}
	m, err := project.LoadManifestFile(filepath.Join(target, project.ManifestName))
	if err != nil {
		t.Fatalf("generated manifest does not load: %v", err)
	}
	if m.Config.Package.Name != "demo" {
		t.Fatalf("name = %q", m.Config.Package.Name)
	}
	if st, err := os.Stat(filepath.Join(target, "src")); err != nil || !st.IsDir() {
		t.Fatalf("src directory missing: %v", err)
	}

	if _, err := initProject(target); err == nil {
		t.Fatal("second init must fail")
	}
}

func TestInitKeepsExistingGitignore(t *testing.T) {
	target := t.TempDir()
	ignore := filepath.Join(target, ".gitignore")
	if err := os.WriteFile(ignore, []byte("node_modules/\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	created, err := initProject(target)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range created {
		if c == ".gitignore" {
			t.Fatal(".gitignore must not be overwritten")
		}
	}
	data, _ := os.ReadFile(ignore)
	if string(data) != "node_modules/\n" {
		t.Fatalf(".gitignore changed: %q", data)
	}
}
