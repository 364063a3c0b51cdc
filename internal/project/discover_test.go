package project

import (
	"path/filepath"
	"slices"
	"testing"
)

func TestDiscoverHonoursGitignore(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"AppController.j.json",
		"views/View.j.json",
		"views/View.j",
		"generated/Gen.j.json",
		"skip.j.json",
		".hidden/H.j.json",
		"node_modules/pkg/P.j.json",
	} {
		writeFile(t, filepath.Join(root, rel), "{}")
	}
	writeFile(t, filepath.Join(root, ".gitignore"), "generated/\nskip.j.json\n")

	got, err := Discover([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "AppController.j.json"),
		filepath.Join(root, "views", "View.j.json"),
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Discover = %v, want %v", got, want)
	}
}

func TestDiscoverExplicitFiles(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "One.j.json")
	writeFile(t, file, "{}")
	got, err := Discover([]string{file, root})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{file}) {
		t.Fatalf("duplicates must collapse, got %v", got)
	}
	if _, err := Discover([]string{filepath.Join(root, "missing")}); err == nil {
		t.Fatalf("expected an error for a missing source")
	}
}

func TestResolveImport(t *testing.T) {
	cases := []struct {
		from, target string
		local        bool
		want         string
	}{
		{"app/main.j", "View.j", true, "app/View.j"},
		{"app/main.j", "../lib/Util.j", true, "lib/Util.j"},
		{"app/main.j", "Foundation/CPObject.j", false, "Foundation/CPObject.j"},
	}
	for _, tc := range cases {
		if got := ResolveImport(tc.from, tc.target, tc.local); got != tc.want {
			t.Fatalf("ResolveImport(%q, %q) = %q, want %q", tc.from, tc.target, got, tc.want)
		}
	}
}

func TestDigestCombine(t *testing.T) {
	a, b := DigestString("a"), DigestString("b")
	if Combine(a, b) == Combine(b, a) {
		t.Fatalf("Combine must depend on order")
	}
	if Combine(a) == a || a.IsZero() {
		t.Fatalf("unexpected digest values")
	}
	if len(a.Short()) != 12 {
		t.Fatalf("Short = %q", a.Short())
	}
}
