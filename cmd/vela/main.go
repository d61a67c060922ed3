// Package main provides the vela command.
package main

import (
	"os"

	"github.com/leapstack-labs/vela/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
