// Package main is the entry point for the clingov CLI binary.
package main

import (
	"os"

	cli "clingov/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
