// Package version holds the release version of liftoff.
package version

// Version is the current release.
const Version = "v0.4.2"
