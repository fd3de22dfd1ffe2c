// Package cmd implements the CLI commands for mermaidpipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "mermaidpipe",
	Short: "mermaidpipe — render mermaid diagrams in documents to images",
	Long: `mermaidpipe scans Markdown and HTML documents for fenced mermaid code
blocks, renders each diagram to an image via the mermaid CLI, and rewrites
the documents to reference the generated images.

Usage:
  mermaidpipe convert <path-or-url> [flags]
  mermaidpipe check`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the shared logger. --verbose wins over the configured
// level.
func newLogger(configLevel string) *log.Logger {
	level := log.InfoLevel
	if parsed, err := log.ParseLevel(configLevel); err == nil {
		level = parsed
	}
	if flagVerbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}
