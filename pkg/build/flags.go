// SPDX-License-Identifier: MIT
//
// Package build exposes the application name, build timestamp, Git commit
// and version embedded into the binary at link time, for example:
//
//	go build -ldflags "-X audiyo/pkg/build.buildName=audiyo -X audiyo/pkg/build.buildVersion=0.3.0 ..."
//
// A binary built without any of the flags is a development build and reports
// the development defaults.
package build

import "fmt"

const (
	DevName    = "audiyo"
	DevVersion = "dev"
)

type ldFlags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

// Package-level variables for build information. These are populated by -ldflags
// during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = defaultFlags()
)

func defaultFlags() *ldFlags {
	return &ldFlags{
		Name:        DevName,
		Description: "Inspect and switch the default audio devices",
		Time:        "unknown",
		Commit:      "unknown",
		Version:     DevVersion,
	}
}

// Initialize validates and copies build information from ldflags variables
// into the buildFlags struct. When no flag was set the development defaults
// stay in place. Setting only some of the flags is a broken release build and
// returns an error naming the first missing one.
func Initialize() error {
	if buildName == "" && buildTime == "" && buildCommit == "" && buildVersion == "" {
		return nil
	}

	if buildName == "" {
		return fmt.Errorf("BuildName is required")
	}
	if buildTime == "" {
		return fmt.Errorf("BuildTime is required")
	}
	if buildCommit == "" {
		return fmt.Errorf("BuildCommit is required")
	}
	if buildVersion == "" {
		return fmt.Errorf("BuildVersion is required")
	}

	buildFlags.Name = buildName
	buildFlags.Time = buildTime
	buildFlags.Commit = buildCommit
	buildFlags.Version = buildVersion

	return nil
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}

// VersionString is the one-line form printed by --version.
func VersionString() string {
	f := GetBuildFlags()
	if f.Version == DevVersion {
		return DevVersion
	}
	return fmt.Sprintf("%s (commit %s, built %s)", f.Version, f.Commit, f.Time)
}
