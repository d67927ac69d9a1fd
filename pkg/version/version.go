// Package version holds build-time identifiers for the jsastcodec binary,
// populated via -ldflags at build time.
package version

// Version, Commit, and Date are set via -ldflags "-X" at build time.
// Their defaults ("dev"/"none"/"unknown") identify unreleased builds.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
