// Package version provides build-time version information.
package version

import "fmt"

// Set at build time via -ldflags.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// String returns the human-readable version line shown at startup and
// in the About dialog.
func String() string {
	return fmt.Sprintf("SnapSpot %s (%s)", Version, GitCommit)
}
