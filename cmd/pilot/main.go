// Command pilot is the Interview Pilot command-line interface.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/cli"
)

// Version information, set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
