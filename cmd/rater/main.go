// Package main is the entry point for the rater.
package main

import (
	"os"

	"rating-engine/cmd/rater/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
