// Package main is the entry point for the resindex CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/resindex/cmd/resindex/commands"
	"github.com/thoreinstein/resindex/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		var exitErr *errors.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Suggestion != "" {
				fmt.Fprintln(os.Stderr, exitErr.Suggestion)
			}
			os.Exit(exitErr.Code)
		}
		os.Exit(errors.ExitSystem)
	}
}
