// ABOUTME: Entry point for lift CLI.
// ABOUTME: Invokes the root Cobra command.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the root command and closes storage even when a command fails,
// since Cobra skips post-run hooks on error.
func execute() error {
	defer closeRepo()
	return rootCmd.Execute()
}
