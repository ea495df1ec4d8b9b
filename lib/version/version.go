// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/bureau-foundation/erlpack/lib/etf"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// Info returns a formatted version string suitable for --version output.
func Info() string {
	dirty := ""
	if Dirty() {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, Commit(), dirty, BuildTime)
}

// Full returns detailed version information including the wire format
// version and Go version.
func Full() string {
	return fmt.Sprintf("%s\n  Format: external term format %d\n  Go: %s\n  Platform: %s/%s",
		Info(), etf.VersionMarker, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Commit returns the git commit SHA. When no -ldflags value was
// injected, it falls back to the VCS revision that the Go toolchain
// stamps into module builds.
func Commit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	if revision, ok := buildSetting("vcs.revision"); ok && len(revision) >= 7 {
		return revision[:7]
	}
	return GitCommit
}

// Dirty reports whether the build had uncommitted changes.
func Dirty() bool {
	if GitDirty == "true" {
		return true
	}
	if GitCommit != "unknown" {
		return false
	}
	modified, _ := buildSetting("vcs.modified")
	return modified == "true"
}

func buildSetting(key string) (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value, true
		}
	}
	return "", false
}
