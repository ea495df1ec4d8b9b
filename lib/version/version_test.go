// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func setBuildVariables(t *testing.T, commit, dirty, buildTime string) {
	t.Helper()
	savedCommit, savedDirty, savedTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() {
		GitCommit, GitDirty, BuildTime = savedCommit, savedDirty, savedTime
	})
	GitCommit, GitDirty, BuildTime = commit, dirty, buildTime
}

func TestInfo(t *testing.T) {
	tests := []struct {
		name  string
		dirty string
		want  string
	}{
		{"clean", "false", Version + " (abc1234, 2026-10-18T00:00:00Z)"},
		{"dirty", "true", Version + " (abc1234-dirty, 2026-10-18T00:00:00Z)"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			setBuildVariables(t, "abc1234", test.dirty, "2026-10-18T00:00:00Z")
			if got := Info(); got != test.want {
				t.Errorf("Info() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestFull(t *testing.T) {
	setBuildVariables(t, "abc1234", "false", "unknown")
	full := Full()
	for _, want := range []string{Info(), "external term format 131", "Go: go", "Platform: "} {
		if !strings.Contains(full, want) {
			t.Errorf("Full() = %q, missing %q", full, want)
		}
	}
}

func TestInjectedCommitWins(t *testing.T) {
	setBuildVariables(t, "feedbee", "false", "unknown")
	if got := Commit(); got != "feedbee" {
		t.Errorf("Commit() = %q, want injected value", got)
	}
	if Dirty() {
		t.Error("Dirty() = true for an injected clean build")
	}
}

func TestShort(t *testing.T) {
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}
