// Command apiserver runs the viz-satellite volcano-plot data backend.
package main

import (
	"os"

	"github.com/turtacn/viz-satellite/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = gitCommit
	cli.BuildDate = buildDate

	os.Exit(cli.Execute())
}
