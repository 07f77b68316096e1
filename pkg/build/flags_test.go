// SPDX-License-Identifier: MIT
package build

import (
	"os"
	"strings"
	"testing"
)

var (
	origName    string
	origTime    string
	origCommit  string
	origVersion string
	origFlags   *Info
)

func TestMain(m *testing.M) {
	origName = buildName
	origTime = buildTime
	origCommit = buildCommit
	origVersion = buildVersion
	origFlags = buildFlags

	exitCode := m.Run()

	buildName = origName
	buildTime = origTime
	buildCommit = origCommit
	buildVersion = origVersion
	buildFlags = origFlags

	os.Exit(exitCode)
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		buildName   string
		buildTime   string
		buildCommit string
		buildVer    string
		wantErrMsg  string
		wantVersion string
	}{
		{
			"Development build",
			"",
			"",
			"",
			"",
			"",
			DevVersion,
		},
		{
			"Release missing BuildCommit",
			"eqscope",
			"2026-01-02",
			"",
			"v1.0.0",
			"BuildCommit is required for a release build",
			"",
		},
		{
			"Release missing BuildTime",
			"eqscope",
			"",
			"abcdef123",
			"v1.0.0",
			"BuildTime is required for a release build",
			"",
		},
		{
			"Release build",
			"eqscope",
			"2026-01-02",
			"abcdef123",
			"v1.0.0",
			"",
			"v1.0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buildName = tt.buildName
			buildTime = tt.buildTime
			buildCommit = tt.buildCommit
			buildVersion = tt.buildVer

			err := Initialize()

			if tt.wantErrMsg != "" {
				if err == nil || err.Error() != tt.wantErrMsg {
					t.Errorf("Initialize() error = %v, want %v", err, tt.wantErrMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Initialize() unexpected error: %v", err)
			}

			flags := GetBuildFlags()
			if flags.Name != "eqscope" {
				t.Errorf("Name = %v, want eqscope", flags.Name)
			}
			if flags.Version != tt.wantVersion {
				t.Errorf("Version = %v, want %v", flags.Version, tt.wantVersion)
			}
			if tt.buildCommit != "" && flags.Commit != tt.buildCommit {
				t.Errorf("Commit = %v, want %v", flags.Commit, tt.buildCommit)
			}
		})
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{Name: "eqscope", Version: "v1.0.0", Commit: "abc", Time: "now"}
	got := info.String()
	for _, part := range []string{"eqscope", "v1.0.0", "abc", "now"} {
		if !strings.Contains(got, part) {
			t.Errorf("String() = %q, missing %q", got, part)
		}
	}
}
