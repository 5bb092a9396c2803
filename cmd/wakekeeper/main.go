// Package main provides the entry point for the wakekeeper CLI application.
package main

import (
	"os"

	"wakekeeper/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
