package version

import (
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBuildTime(t *testing.T) {
	tests := []struct {
		in   string
		zero bool
	}{
		{"", true},
		{"unknown", true},
		{"not a time", true},
		{"2024-03-01T10:20:30Z", false},
		{"2024-03-01T10:20:30", false},
		{"2024-03-01 10:20:30", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.zero, parseBuildTime(tt.in).IsZero())
		})
	}
}

func TestShortVersion(t *testing.T) {
	assert.Equal(t, "v1.2.0", shortVersion("v1.2.0", "unknown"))
	assert.Equal(t, "v1.2.0 (abcdef1)", shortVersion("v1.2.0", "abcdef1234"))
	assert.Equal(t, "dev-abcdef1", shortVersion("dev", "abcdef1234"))
	assert.Equal(t, "dev", shortVersion("dev", "abc"))
}

func TestGetVersionPrefersLinkerValue(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v9.9.9"
	assert.Equal(t, "v9.9.9", GetVersion())
	assert.True(t, IsRelease())
}

func TestBuildInfoString(t *testing.T) {
	info := &BuildInfo{
		Version:   "v1.0.0",
		GitCommit: "abcdef1234",
		BuildTime: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		GoVersion: runtime.Version(),
		Platform:  "linux/amd64",
		Dirty:     true,
	}

	out := info.String()
	assert.True(t, strings.HasPrefix(out, "Version: v1.0.0\n"))
	assert.Contains(t, out, "Commit: abcdef1234 (dirty)")
	assert.Contains(t, out, "Built: 2024-03-01T10:00:00Z")
	assert.Contains(t, out, "Platform: linux/amd64")

	bare := (&BuildInfo{Version: "dev", GitCommit: "unknown", GoVersion: "go1", Platform: "p"}).String()
	assert.Equal(t, "Version: dev\nGo: go1\nPlatform: p", bare)
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.NotEmpty(t, info.Version)
}
