// Package buildinfo holds version metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/exhibitnet/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/exhibitnet/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import "fmt"

// Stamped by -ldflags; the defaults mark a local build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template is the cobra version template, e.g. "exhibitnet version v0.3.0 (abc123, 2026-01-02)".
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s (%s, %s)\n", Version, Commit, Date)
}
