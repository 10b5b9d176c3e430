// Package main provides the asmreport command.
package main

import (
	"os"

	"github.com/leapstack-labs/asmreport/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
