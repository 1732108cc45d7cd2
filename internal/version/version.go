package version

import (
	"fmt"
	"runtime"
	"time"
)

// Overridden at build time with -ldflags "-X ...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = time.Now().Format(time.RFC3339)
	GoVersion = runtime.Version()
)

// String is the one-line banner printed by `toolshelf version`.
func String() string {
	return fmt.Sprintf("toolshelf %s (commit %s, built %s, %s)", Version, Commit, BuildDate, GoVersion)
}
