// Package version exposes build metadata injected at link time:
//
//	go build -ldflags "-X github.com/mdelacroix/cinetheque/internal/version.Version=1.2.0 \
//	                   -X github.com/mdelacroix/cinetheque/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

import "fmt"

var (
	Version = "dev"
	Commit  = ""
)

// String renders the version for logs, with the commit when one was set.
func String() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
