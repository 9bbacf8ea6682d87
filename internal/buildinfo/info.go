// Package buildinfo carries version details stamped in by the linker.
package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/cleared-dev/tally/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the version line printed by tally --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
