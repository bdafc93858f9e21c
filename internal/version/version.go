// Package version provides version information for hnreader.
package version

import "runtime/debug"

// Version and Commit can be overridden at build time using ldflags.
var (
	Version = "development"
	Commit  = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns the full version string including the commit hash if available.
// A development build installed with `go install` reports its module version.
func String() string {
	v := Version
	if v == "development" {
		if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	if Commit != "unknown" {
		return v + "+" + Commit
	}
	return v
}

// UserAgent is sent with every request to the story API.
func UserAgent() string {
	return "hnreader/" + String()
}
