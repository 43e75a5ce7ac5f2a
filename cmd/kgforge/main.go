// Package main is the entry point for the kgforge CLI.
package main

import (
	"os"

	"github.com/kgforge-labs/kgforge/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
