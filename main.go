package main

import (
	"fmt"
	"os"

	"audiyo/cmd"
	"audiyo/pkg/build"
)

// main loads build information, runs the command line and maps any error to
// exit status 1. Command results go to stdout, everything else to stderr.
func main() {
	if err := build.Initialize(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", build.GetBuildFlags().Name, err)
		os.Exit(1)
	}
}
