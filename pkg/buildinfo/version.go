// Package buildinfo holds version metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/rowgraph/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/rowgraph/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)"
//
// Unstamped builds fall back to the module version recorded by the Go
// toolchain, so `go install ...@v0.3.0` still reports v0.3.0.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	if Version != "dev" {
		return
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
