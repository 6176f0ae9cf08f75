package version

import "fmt"

// Build information, set at link time:
//
//	-X github.com/arthur-debert/modshelf/internal/version.Version=v1.2.3
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String is the one-line build description printed by "modshelf version"
func String() string {
	return fmt.Sprintf("modshelf %s (commit %s, built %s)", Version, Commit, Date)
}
