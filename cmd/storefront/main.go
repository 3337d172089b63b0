// Package main is the entry point for the Storefront CLI.
// Storefront CLI provides command-line access to the Storefront admin API.
package main

import (
	"os"

	"github.com/storefront-labs/storefront-cli/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
