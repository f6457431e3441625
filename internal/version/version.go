package version

import (
	"fmt"
	"runtime"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/MrSnakeDoc/shelf/internal/version.Version=v0.3.0 ..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown" // RFC 3339
	GoVersion = runtime.Version()
)

// String is the one-line build description logged at startup.
func String() string {
	return fmt.Sprintf("shelf %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
