// Package cmd — check command.
// Verifies that the mermaid CLI is available before a real run, reporting
// the resolved command or the installation suggestion on failure.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mermaid-tools/mermaidpipe/core/mermaid"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the mermaid CLI renderer is available",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&flagConfig, "config", "", "Config file path (default: mermaidpipe.toml)")
	checkCmd.Flags().StringVar(&flagMmdc, "mmdc", "", "Renderer command (overrides config)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	resolver := mermaid.NewCommandResolver(cfg.MmdcPath, mermaid.DefaultCache(), mermaid.NewExecutor(), logger)
	resolved, err := resolver.Resolve()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "✓ Renderer available: %s\n", strings.Join(resolved, " "))
	return nil
}
