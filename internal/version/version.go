// Package version provides build-time version information.
package version

// Set at build time via -ldflags "-X ...".
var (
	// Version is the semantic version from git tags (e.g. "v1.2.3").
	Version = "dev"
	// GitCommit is the short git commit hash.
	GitCommit = "unknown"
	// BuildTime is the build timestamp in RFC3339 format.
	BuildTime = "unknown"
)

// Info bundles the build-time values for display.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}
}
