// Package version holds build-time identifiers injected via -ldflags.
package version

// These are overwritten at build time with -ldflags "-X ...".
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

// FullVersion is the human-readable string shown by --version.
var FullVersion = Version + " (" + GitCommit + ", " + BuildDate + ")"
