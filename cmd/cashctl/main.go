// Package main is the entry point for the cashctl operator CLI.
package main

import (
	"os"

	"github.com/sheikh-saqib/daily-cash-reconciliation/cmd/cashctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
