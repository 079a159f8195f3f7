package main

import (
	"fmt"
	"os"

	"github.com/flywheel-apps/fsl-topup/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cmd := cli.NewRootCommand(version)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
