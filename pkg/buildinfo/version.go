// Package buildinfo carries version information stamped at link time:
//
//	go build -ldflags "-X github.com/pi-bie/ocitysmap/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/pi-bie/ocitysmap/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/pi-bie/ocitysmap/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/ocitysmap
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

func init() {
	// Binaries installed with "go install" carry their module version.
	if Version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// Producer names the generator in PDF metadata and plan files.
func Producer() string {
	return "ocitysmap " + Version
}
