// Package cmd — convert command.
// This is the main command that orchestrates the pipeline:
// discover → scan → render → rewrite → export → write.
//
// The input is a docs directory, a single document, or a URL. Flags
// override config-file values.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mermaid-tools/mermaidpipe/config"
	"github.com/mermaid-tools/mermaidpipe/core"
	"github.com/mermaid-tools/mermaidpipe/core/discover"
	"github.com/mermaid-tools/mermaidpipe/core/export"
	"github.com/mermaid-tools/mermaidpipe/core/fetch"
	"github.com/mermaid-tools/mermaidpipe/core/htmldoc"
	"github.com/mermaid-tools/mermaidpipe/core/mermaid"
	"github.com/mermaid-tools/mermaidpipe/core/output"
	"github.com/mermaid-tools/mermaidpipe/core/paths"
	"github.com/mermaid-tools/mermaidpipe/core/rewrite"
	"github.com/mermaid-tools/mermaidpipe/core/scan"
)

// Flag variables.
var (
	flagConfig     string
	flagDest       string
	flagOutputDir  string
	flagFormat     string
	flagTheme      string
	flagWidth      int
	flagHeight     int
	flagBackground string
	flagScale      int
	flagCSS        string
	flagMmdc       string
	flagKeepSource bool
	flagContinue   bool
	flagExport     string
)

var convertCmd = &cobra.Command{
	Use:   "convert <path-or-url>",
	Short: "Render mermaid blocks in documents and rewrite them as images",
	Long: `Convert scans the given docs directory, file, or URL for fenced mermaid
code blocks, renders each to an image, and writes rewritten documents that
reference the generated images.

Examples:
  mermaidpipe convert docs/
  mermaidpipe convert docs/ --dest site --format png
  mermaidpipe convert README.md --keep-source
  mermaidpipe convert https://example.com/guide.html --export pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&flagConfig, "config", "", "Config file path (default: mermaidpipe.toml)")
	convertCmd.Flags().StringVar(&flagDest, "dest", "", "Destination directory for rewritten documents (default: current directory)")

	// Render settings, overriding config-file values.
	convertCmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "Image output subdirectory under the destination")
	convertCmd.Flags().StringVar(&flagFormat, "format", "", "Image format: svg or png")
	convertCmd.Flags().StringVar(&flagTheme, "theme", "", "Mermaid theme: default, dark, forest, or neutral")
	convertCmd.Flags().IntVar(&flagWidth, "width", 0, "Image width in pixels")
	convertCmd.Flags().IntVar(&flagHeight, "height", 0, "Image height in pixels")
	convertCmd.Flags().StringVar(&flagBackground, "background", "", "Image background color")
	convertCmd.Flags().IntVar(&flagScale, "scale", 0, "Image scale factor")
	convertCmd.Flags().StringVar(&flagCSS, "css", "", "Custom CSS file passed to the renderer")
	convertCmd.Flags().StringVar(&flagMmdc, "mmdc", "", "Renderer command")

	// Policy flags.
	convertCmd.Flags().BoolVar(&flagKeepSource, "keep-source", false, "Keep the original mermaid fence after each image")
	convertCmd.Flags().BoolVar(&flagContinue, "continue-on-error", false, "Skip failed diagrams instead of aborting")

	// Export format.
	convertCmd.Flags().StringVar(&flagExport, "export", "markdown", "Output format: markdown, pdf, or json")
}

// loadConfig reads the config file and applies flag overrides. Only flags
// the user actually set override file values.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := flagConfig
	explicit := cmd.Flags().Changed("config")
	if path == "" {
		path = config.DefaultFile
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
	}
	if cmd.Flags().Changed("format") {
		cfg.ImageFormat = flagFormat
	}
	if cmd.Flags().Changed("theme") {
		cfg.Theme = flagTheme
	}
	if cmd.Flags().Changed("width") {
		cfg.Width = flagWidth
	}
	if cmd.Flags().Changed("height") {
		cfg.Height = flagHeight
	}
	if cmd.Flags().Changed("background") {
		cfg.Background = flagBackground
	}
	if cmd.Flags().Changed("scale") {
		cfg.Scale = flagScale
	}
	if cmd.Flags().Changed("css") {
		cfg.CSSFile = flagCSS
	}
	if cmd.Flags().Changed("mmdc") {
		cfg.MmdcPath = flagMmdc
	}
	if cmd.Flags().Changed("keep-source") {
		cfg.KeepSource = flagKeepSource
	}
	if cmd.Flags().Changed("continue-on-error") {
		cfg.ErrorOnFail = !flagContinue
	}

	return cfg, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	exporter, err := selectExporter()
	if err != nil {
		return err
	}

	gen, err := mermaid.NewGenerator(mermaid.Settings{
		Command:         cfg.MmdcPath,
		MermaidConfig:   cfg.MermaidConfig,
		PuppeteerConfig: cfg.PuppeteerConfig,
	}, nil, nil, logger)
	if err != nil {
		return err
	}

	writer, err := output.New(flagDest)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	processor := rewrite.New(scan.New(logger), gen, paths.New(), rewrite.Options{
		Render:      cfg.RenderOptions(),
		OutputDir:   cfg.OutputDir,
		DocsRoot:    writer.DestDir,
		ErrorOnFail: cfg.ErrorOnFail,
		KeepSource:  cfg.KeepSource,
	}, logger)

	p := &pipeline{
		cfg:       cfg,
		processor: processor,
		exporter:  exporter,
		writer:    writer,
		html:      htmldoc.New(),
		logger:    logger,
	}

	switch {
	case strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://"):
		return p.runURL(context.Background(), input)
	default:
		info, err := os.Stat(input)
		if err != nil {
			return &core.FileError{
				Message:    "input path not found",
				Path:       input,
				Op:         "read",
				Suggestion: "check the path or pass a URL",
				Err:        err,
			}
		}
		if info.IsDir() {
			return p.runTree(input)
		}
		return p.runFile(input)
	}
}

// pipeline bundles the per-run components.
type pipeline struct {
	cfg       config.Config
	processor *rewrite.Processor
	exporter  core.Exporter
	writer    *output.Writer
	html      *htmldoc.Converter
	logger    *log.Logger

	// written accumulates images generated this run so a fatal abort can
	// clean up partial output.
	written []string
}

// runTree processes every document under root, mirroring the tree into the
// destination.
func (p *pipeline) runTree(root string) error {
	docs, err := discover.Documents(root, p.cfg.OutputDir)
	if err != nil {
		return err
	}
	p.logger.Info("discovered documents", "root", root, "count", len(docs))

	var errCount int
	for _, rel := range docs {
		if err := p.processDoc(filepath.Join(root, rel), rel); err != nil {
			if p.cfg.ErrorOnFail {
				output.CleanImages(p.written, p.logger)
				return fmt.Errorf("processing %s: %w", rel, err)
			}
			p.logger.Error("document failed", "doc", rel, "err", err)
			errCount++
		}
	}

	if errCount > 0 {
		p.logger.Warn("some documents failed", "failed", errCount, "total", len(docs))
	}
	return nil
}

// runFile processes a single local document.
func (p *pipeline) runFile(path string) error {
	if err := p.processDoc(path, filepath.Base(path)); err != nil {
		output.CleanImages(p.written, p.logger)
		return err
	}
	return nil
}

// runURL fetches a remote document and processes it like a local one.
func (p *pipeline) runURL(ctx context.Context, rawURL string) error {
	fetcher := fetch.New()
	result, err := fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return err
	}

	text := result.Body
	title := ""
	if strings.Contains(result.ContentType, "text/html") || discover.IsHTML(rawURL) {
		title = p.html.Title(text)
		text, err = p.html.ToMarkdown(text)
		if err != nil {
			return err
		}
	}

	rel := output.NameFromURL(rawURL)
	if err := p.processText(rawURL, rel, text, title); err != nil {
		output.CleanImages(p.written, p.logger)
		return err
	}
	return nil
}

// processDoc reads one document, converting HTML input to Markdown first.
func (p *pipeline) processDoc(path, rel string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &core.FileError{
			Message:    "reading document",
			Path:       path,
			Op:         "read",
			Suggestion: "check file permissions",
			Err:        err,
		}
	}

	text := string(data)
	title := ""
	if discover.IsHTML(path) {
		title = p.html.Title(text)
		text, err = p.html.ToMarkdown(text)
		if err != nil {
			return err
		}
		rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".md"
	}

	return p.processText(path, rel, text, title)
}

// processText runs the rewrite pipeline on document text and writes the
// exported result.
func (p *pipeline) processText(source, rel, text, title string) error {
	imageDir := filepath.Join(p.writer.DestDir, p.cfg.OutputDir)

	rewritten, images, err := p.processor.Process(rel, text, imageDir)
	if err != nil {
		return err
	}
	p.written = append(p.written, images...)

	meta := core.DocMeta{
		SourcePath:  source,
		Title:       title,
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
		BlockCount:  len(images),
		Images:      images,
	}

	data, err := p.exporter.Export(rewritten, meta)
	if err != nil {
		return err
	}

	path, err := p.writer.Write(rel, data, p.exporter.Extension())
	if err != nil {
		return err
	}
	p.logger.Info("written", "path", path, "images", len(images))
	return nil
}

// selectExporter creates the appropriate Exporter based on --export.
func selectExporter() (core.Exporter, error) {
	switch flagExport {
	case "markdown", "md":
		return export.NewMarkdown(), nil
	case "pdf":
		return export.NewPDF(), nil
	case "json":
		return export.NewReport(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (use markdown, pdf, or json)", flagExport)
	}
}
