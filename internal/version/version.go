// Package version provides build information for commandflow.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the release version. Overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash. Overridden at build time using ldflags.
var Commit = "unknown"

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns the version including the commit hash if available. A
// development build falls back to the VCS revision stamped by the Go
// toolchain.
func String() string {
	commit := Commit
	if commit == "unknown" && Version == "development" {
		commit = vcsRevision()
	}
	if commit != "unknown" && commit != "" {
		return Version + "+" + commit
	}
	return Version
}

// Full returns String plus the Go runtime and platform.
func Full() string {
	return fmt.Sprintf("commandflow %s (%s %s/%s)", String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func vcsRevision() string {
	info, ok := readBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
