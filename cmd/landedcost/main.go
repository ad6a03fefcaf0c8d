// Package main is the entry point for the landedcost CLI.
package main

import (
	"os"

	"github.com/hapkiduki/landedcost/cmd/landedcost/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
