// Package version holds the application version, overridable at build time
// with -ldflags "-X taxlot/internal/version.Version=...".
package version

// Version is the application version string.
var Version = "1.0.0"
