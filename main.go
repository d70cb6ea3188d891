package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/atlas/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cmd := cli.NewRootCommand(Version)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
