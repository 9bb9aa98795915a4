package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	// GitCommit and BuildDate are optional.
	_ = GitCommit
	_ = BuildDate
}

func withPlainColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestColored_KeepsText(t *testing.T) {
	withPlainColor(t)
	validVersions := []string{
		"0.1.0",
		"1.2.3",
		"2.0.0-alpha",
		"1.0.0-beta.1",
		"1.2.3-rc.1+build.123",
		"weird",
	}
	for _, v := range validVersions {
		withVersion(t, v, "", "")
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestBanner(t *testing.T) {
	withPlainColor(t)
	tests := []struct {
		commit, date string
		want         string
	}{
		{"", "", "tsolve 1.2.3"},
		{"abc123", "", "tsolve 1.2.3 (abc123)"},
		{"abc123", "2024-01-15", "tsolve 1.2.3 (abc123, 2024-01-15)"},
		{"", "2024-01-15", "tsolve 1.2.3 (2024-01-15)"},
	}
	for _, tt := range tests {
		withVersion(t, "1.2.3", tt.commit, tt.date)
		if got := Banner(); got != tt.want {
			t.Errorf("Banner() = %q, want %q", got, tt.want)
		}
	}
}

func TestBanner_ColorDoesNotChangeDigits(t *testing.T) {
	withVersion(t, "3.4.5", "", "")
	orig := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = orig }()
	got := Banner()
	for _, part := range []string{"3", "4", "5"} {
		if !strings.Contains(got, part) {
			t.Fatalf("banner %q lost %q", got, part)
		}
	}
}

// BenchmarkBanner benchmarks rendering the version banner
func BenchmarkBanner(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Banner()
	}
}
