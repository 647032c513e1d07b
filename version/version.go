// Package version exposes build metadata stamped at link time via
// -ldflags "-X github.com/spidy-senpai/splitter/version.version=...".
package version

//nolint:gochecknoglobals // link-time variables
var (
	name    = "splitter"
	version = "dev"
	commit  = "unknown"
)

// Name returns the binary name.
func Name() string {
	return name
}

// Version returns the stamped version string.
func Version() string {
	return version
}

// Commit returns the stamped VCS commit.
func Commit() string {
	return commit
}
