// Package main provides the CLI entry point for rimecore.
package main

import (
	"os"

	"github.com/rimecore/rimecore/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
