// Package buildinfo exposes version information stamped in at build time.
//
//	go build -ldflags "-X github.com/matzehuels/voronoisvg/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/voronoisvg/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/voronoisvg/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// Generator names this build. It is mixed into cache keys, so upgrading
// the binary invalidates old entries.
func Generator() string {
	return "voronoisvg " + Version
}
