// Package main is the entry point for the dsearch CLI.
package main

import (
	"os"

	"github.com/f3rmion/dsearch/cmd/dsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
