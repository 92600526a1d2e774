package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		commit   string
		revision string
		expected string
	}{
		{name: "development version without commit", version: "development", commit: "unknown", expected: "development"},
		{name: "release version with commit", version: "1.0.0", commit: "abc1234", expected: "1.0.0+abc1234"},
		{name: "unknown commit shows only version", version: "2.0.0", commit: "unknown", revision: "0123456789", expected: "2.0.0"},
		{name: "development uses vcs revision", version: "development", commit: "unknown", revision: "0123456789", expected: "development+0123456"},
		{name: "short vcs revision ignored", version: "development", commit: "unknown", revision: "012", expected: "development"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origVersion, origCommit, origRead := Version, Commit, readBuildInfo
			defer func() {
				Version, Commit, readBuildInfo = origVersion, origCommit, origRead
			}()

			Version = tt.version
			Commit = tt.commit
			readBuildInfo = func() (*debug.BuildInfo, bool) {
				if tt.revision == "" {
					return nil, false
				}
				return &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: tt.revision}}}, true
			}

			assert.Equal(t, tt.expected, String())
		})
	}
}

func TestFull(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()
	Version, Commit = "1.2.3", "abc1234"

	full := Full()
	assert.True(t, strings.HasPrefix(full, "commandflow 1.2.3+abc1234 ("))
	assert.Contains(t, full, runtime.Version())
	assert.Contains(t, full, runtime.GOOS+"/"+runtime.GOARCH)
}
