// Package mermaid implements the ImageGenerator interface on top of the
// mermaid CLI (mmdc). Each invocation resolves the renderer executable
// (cached process-wide), prepares temp artifacts, runs the CLI as a
// subprocess with a bounded timeout, validates the produced image, and
// cleans its artifacts on every exit path.
package mermaid

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mermaid-tools/mermaidpipe/core"
)

// runTimeout bounds a single render invocation. Exceeding it is an ordinary
// failure outcome, not a crash.
const runTimeout = 30 * time.Second

// Settings configures a Generator.
type Settings struct {
	Command         string // configured renderer command, default "mmdc"
	MermaidConfig   string // optional renderer-config file path
	PuppeteerConfig string // optional puppeteer-config file path
}

// Generator renders mermaid diagrams to image files via the external CLI.
type Generator struct {
	resolved  []string
	artifacts *artifactManager
	exec      Executor
	logger    *log.Logger
}

// NewGenerator resolves the renderer command and returns a ready Generator.
// An unavailable CLI is always fatal here, regardless of the error_on_fail
// policy: no block can succeed without a working renderer. cache and execr
// may be nil to use the process-wide defaults.
func NewGenerator(settings Settings, cache *CommandCache, execr Executor, logger *log.Logger) (*Generator, error) {
	if settings.Command == "" {
		settings.Command = defaultCommand
	}
	if cache == nil {
		cache = DefaultCache()
	}
	if execr == nil {
		execr = NewExecutor()
	}
	if logger == nil {
		logger = log.Default()
	}

	resolved, err := NewCommandResolver(settings.Command, cache, execr, logger).Resolve()
	if err != nil {
		return nil, err
	}

	return &Generator{
		resolved: resolved,
		artifacts: &artifactManager{
			mermaidConfig:   settings.MermaidConfig,
			puppeteerConfig: settings.PuppeteerConfig,
			logger:          logger,
		},
		exec:   execr,
		logger: logger,
	}, nil
}

// Generate renders one diagram to outputPath. The caller decides whether a
// returned error aborts the document or degrades gracefully.
func (g *Generator) Generate(code, outputPath string, opts core.RenderOptions) error {
	logger := g.logger.With("invocation", shortID())

	artifacts, err := g.artifacts.Prepare(code, outputPath)
	if err != nil {
		return err
	}
	defer artifacts.Cleanup(logger)

	cmd := g.buildCommand(artifacts, outputPath, opts)
	logger.Debug("executing mermaid CLI", "command", strings.Join(cmd, " "))

	result, err := g.exec.Run(cmd, runTimeout)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &core.CLIError{
				Message:  fmt.Sprintf("mermaid CLI timed out after %s", runTimeout),
				Command:  strings.Join(cmd, " "),
				ExitCode: -1,
				Stderr:   "process timed out",
			}
		}
		return &core.CLIError{
			Message:  fmt.Sprintf("mermaid CLI could not be executed: %v", err),
			Command:  strings.Join(cmd, " "),
			ExitCode: -1,
		}
	}

	return g.validate(result, cmd, outputPath, code, opts, logger)
}

// validate turns the subprocess result into a typed error or success.
func (g *Generator) validate(result ExecResult, cmd []string, outputPath, code string, opts core.RenderOptions, logger *log.Logger) error {
	if result.ExitCode != 0 {
		return &core.CLIError{
			Message:  fmt.Sprintf("mermaid CLI failed: %s", strings.TrimSpace(result.Stderr)),
			Command:  strings.Join(cmd, " "),
			ExitCode: result.ExitCode,
			Stderr:   result.Stderr,
		}
	}

	if _, err := os.Stat(outputPath); err != nil {
		return &core.ImageError{
			Message:       fmt.Sprintf("image not created: %s", outputPath),
			ImagePath:     outputPath,
			Format:        opts.Format,
			DiagramSource: core.TruncateDiagram(code),
			Suggestion:    "check mermaid syntax and CLI configuration",
		}
	}

	if opts.Format == "svg" {
		if err := inspectSVG(outputPath, code, logger); err != nil {
			return err
		}
	}

	logger.Info("converted mermaid diagram", "image", filepath.Base(outputPath))
	return nil
}

// buildCommand assembles the resolved executable tokens plus the render
// flags. The theme flag is omitted entirely for the platform default theme
// so the renderer's own default behavior is not overridden.
func (g *Generator) buildCommand(a *Artifacts, outputPath string, opts core.RenderOptions) []string {
	cmd := append([]string{}, g.resolved...)
	cmd = append(cmd, "-i", a.SourcePath, "-o", outputPath, "-e", opts.Format)

	if opts.Theme != "" && opts.Theme != "default" {
		cmd = append(cmd, "-t", opts.Theme)
	}
	if opts.Width > 0 {
		cmd = append(cmd, "-w", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		cmd = append(cmd, "-H", strconv.Itoa(opts.Height))
	}
	if opts.Background != "" {
		cmd = append(cmd, "-b", opts.Background)
	}
	if opts.Scale > 1 {
		cmd = append(cmd, "-s", strconv.Itoa(opts.Scale))
	}
	if a.MermaidConfigPath != "" {
		cmd = append(cmd, "-c", a.MermaidConfigPath)
	}
	if opts.CSSFile != "" {
		cmd = append(cmd, "-C", opts.CSSFile)
	}
	if a.PuppeteerConfigPath != "" {
		cmd = append(cmd, "-p", a.PuppeteerConfigPath)
	}
	return cmd
}

// shortID returns a short correlation ID for an invocation's log lines.
func shortID() string {
	return uuid.NewString()[:8]
}
