// SPDX-License-Identifier: MIT
//
// Package build holds the version metadata embedded at link time:
//
//	go build -ldflags "-X eqscope/pkg/build.buildVersion=0.2.0 \
//	  -X eqscope/pkg/build.buildCommit=$(git rev-parse --short HEAD) \
//	  -X eqscope/pkg/build.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Development builds leave the flags empty and report version "dev"; the
// commit then falls back to the VCS revision stamped by the Go toolchain.
package build

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// DevVersion is reported when no version was linked in.
const DevVersion = "dev"

// Info describes the running binary.
type Info struct {
	Name        string
	Description string
	Version     string
	Commit      string
	Time        string
}

// String formats the version line printed by the version command.
func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", i.Name, i.Version, i.Commit, i.Time)
}

// Package-level variables for build information. These are populated by
// -ldflags during compilation.
var (
	buildName    string
	buildVersion string
	buildCommit  string
	buildTime    string
	buildFlags   = defaultInfo()
)

func defaultInfo() *Info {
	return &Info{
		Name:        "eqscope",
		Description: "Real-time spectrum analyzer and EQ response visualizer",
		Version:     DevVersion,
		Commit:      "unknown",
		Time:        "unknown",
	}
}

// Initialize copies the linked-in values into the build information. A
// release build (one with a version) must also carry its commit and time.
func Initialize() error {
	info := defaultInfo()
	if buildName != "" {
		info.Name = buildName
	}

	if buildVersion != "" {
		if buildCommit == "" {
			return errors.New("BuildCommit is required for a release build")
		}
		if buildTime == "" {
			return errors.New("BuildTime is required for a release build")
		}
		info.Version = buildVersion
		info.Commit = buildCommit
		info.Time = buildTime
	} else if rev, ok := vcsRevision(); ok {
		info.Commit = rev
	}

	buildFlags = info
	return nil
}

func vcsRevision() (string, bool) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value, true
		}
	}
	return "", false
}

// GetBuildFlags returns the current build information. It is valid before
// Initialize, with development defaults.
func GetBuildFlags() *Info {
	return buildFlags
}
