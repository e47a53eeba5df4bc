package main

import (
	"os"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/cli"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/logging"
)

// main is the entry point for the storybook-link-comment binary.
func main() {
	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
