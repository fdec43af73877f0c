// Package versions reports build version information for the tour guide binaries.
package versions

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const (
	unknownStr     = "unknown"
	devVersion     = "dev"
	shortCommitLen = 8
)

// Version information set by build using -ldflags
var (
	// Version is the released version of the tour guide
	Version = devVersion
	// Commit is the git commit hash of the build
	Commit = unknownStr
	// BuildDate is the date when the binary was built
	BuildDate = unknownStr
)

// VersionInfo represents the version information
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// String renders the version info on one line
func (v VersionInfo) String() string {
	return fmt.Sprintf("tourguide %s (commit %s, built %s, %s %s)",
		v.Version, v.Commit, v.BuildDate, v.GoVersion, v.Platform)
}

// GetVersionInfo returns the version information
func GetVersionInfo() VersionInfo {
	var settings []debug.BuildSetting
	if info, ok := debug.ReadBuildInfo(); ok {
		settings = info.Settings
	}
	return resolve(Version, Commit, BuildDate, settings)
}

// resolve fills unknown commit and date values from VCS build settings for dev
// builds and derives a version string from the commit when none was stamped.
func resolve(version, commit, buildDate string, settings []debug.BuildSetting) VersionInfo {
	if strings.HasPrefix(version, devVersion) {
		for _, s := range settings {
			switch {
			case s.Key == "vcs.revision" && commit == unknownStr:
				commit = s.Value
			case s.Key == "vcs.time" && buildDate == unknownStr:
				buildDate = s.Value
			}
		}
	}

	if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
		buildDate = t.UTC().Format("2006-01-02 15:04:05 MST")
	}

	if version == devVersion {
		version = "build-" + commit[:min(len(commit), shortCommitLen)]
	}

	return VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
