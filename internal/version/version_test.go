package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	// GitCommit, GitMessage and BuildDate are optional
	_ = GitCommit
	_ = GitMessage
	_ = BuildDate
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate
	}()

	// как при сборке с -ldflags
	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2026-01-15T10:30:00Z"

	if Version != "1.2.3" || GitCommit != "abc123def456" || BuildDate != "2026-01-15T10:30:00Z" {
		t.Errorf("overrides not visible: %q %q %q", Version, GitCommit, BuildDate)
	}
}

func TestVersion_Colored(t *testing.T) {
	origVersion := Version
	origNoColor := color.NoColor
	defer func() {
		Version = origVersion
		color.NoColor = origNoColor
	}()

	color.NoColor = true
	tests := []struct {
		version string
		want    string
	}{
		{"1.2.3-rc.1", "1.2.3-rc.1"},
		{"0.1.0-dev+build.7", "0.1.0-dev+build.7"},
		{"nightly", "nightly"},
		{" 2.0.0 ", "2.0.0"},
	}
	for _, tt := range tests {
		Version = tt.version
		if got := Colored(); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.version, got, tt.want)
		}
	}

	color.NoColor = false
	Version = "0.1.0"
	want := "\x1b[33;1m0\x1b[0;22m.\x1b[32;1m1\x1b[0;22m.\x1b[34;1m0\x1b[0;22m"
	if got := Colored(); got != want {
		t.Errorf("Colored() = %q, want %q", got, want)
	}
}

// BenchmarkColored measures rendering the coloured version string.
func BenchmarkColored(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Colored()
	}
}
