// Package main provides the entry point for the hmr-bench CLI.
package main

import (
	"os"

	"github.com/aman-cerp/hmrcore/cmd/hmr-bench/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
