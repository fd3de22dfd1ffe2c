// Package rewrite orchestrates the per-document pipeline: scan blocks,
// render each one, resolve its embed path, and substitute image references
// into the document text.
package rewrite

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mermaid-tools/mermaidpipe/core"
)

// Options carries the document-wide processing policy.
type Options struct {
	Render      core.RenderOptions // document-wide render settings
	OutputDir   string             // configured output subdirectory (site-relative)
	DocsRoot    string             // docs root for reference resolution, may be empty
	ErrorOnFail bool               // abort the document on the first render failure
	KeepSource  bool               // keep the original fence after the image reference
}

// Processor rewrites one document at a time. Blocks are rendered strictly
// in sequence; callers may parallelize across documents.
type Processor struct {
	scanner  core.Scanner
	gen      core.ImageGenerator
	resolver core.PathResolver
	opts     Options
	logger   *log.Logger
}

// New creates a Processor.
func New(scanner core.Scanner, gen core.ImageGenerator, resolver core.PathResolver, opts Options, logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.Default()
	}
	return &Processor{scanner: scanner, gen: gen, resolver: resolver, opts: opts, logger: logger}
}

// Process renders every mermaid block in text into outputDir and replaces
// each with an image reference. It returns the rewritten text and the image
// files written. Documents without blocks are returned unchanged.
//
// With ErrorOnFail unset, a failed block is left untouched in the output
// and processing continues; otherwise the first failure aborts.
func (p *Processor) Process(docPath, text, outputDir string) (string, []string, error) {
	blocks := p.scanner.Extract(text)
	if len(blocks) == 0 {
		return text, nil, nil
	}
	p.logger.Info("found mermaid blocks", "doc", docPath, "count", len(blocks))

	var (
		rendered []core.DiagramBlock
		images   []string
	)
	for i, block := range blocks {
		name := ImageFilename(docPath, i, block.Code, p.opts.Render.Format)
		imagePath := filepath.Join(outputDir, name)

		if err := p.gen.Generate(block.Code, imagePath, block.Merge(p.opts.Render)); err != nil {
			if p.opts.ErrorOnFail {
				return "", nil, err
			}
			p.logger.Error("image generation failed, keeping original mermaid block",
				"doc", docPath, "block", i, "image", imagePath,
				"err", err, "diagram", core.TruncateDiagram(block.Code))
			continue
		}

		rendered = append(rendered, block)
		images = append(images, imagePath)
	}

	if len(rendered) == 0 {
		return text, nil, nil
	}

	out, err := p.substitute(docPath, text, rendered, images)
	if err != nil {
		return "", nil, err
	}
	return out, images, nil
}

// substitute replaces each block span with its image reference, working in
// descending start order so earlier spans' offsets stay valid while later
// spans are replaced.
func (p *Processor) substitute(docPath, text string, blocks []core.DiagramBlock, images []string) (string, error) {
	if len(blocks) != len(images) {
		return "", &core.ParsingError{
			Message:    fmt.Sprintf("block/image count mismatch: %d blocks, %d images", len(blocks), len(images)),
			SourceFile: docPath,
		}
	}

	type replacement struct {
		block core.DiagramBlock
		image string
	}
	repls := make([]replacement, len(blocks))
	for i := range blocks {
		repls[i] = replacement{block: blocks[i], image: images[i]}
	}
	sort.Slice(repls, func(i, j int) bool { return repls[i].block.Start > repls[j].block.Start })

	result := text
	for _, r := range repls {
		ref := p.resolver.MarkdownPath(r.image, docPath, p.opts.OutputDir, p.opts.DocsRoot)
		embed := "![Mermaid Diagram](" + ref + ")"
		if p.opts.KeepSource {
			embed += "\n\n" + originalFence(r.block)
		}
		result = result[:r.block.Start] + embed + result[r.block.End:]
	}
	return result, nil
}

// originalFence reconstructs the fenced block, including the attribute
// syntax when attributes were present. Attribute keys are emitted in sorted
// order for deterministic output.
func originalFence(b core.DiagramBlock) string {
	if len(b.Attrs) == 0 {
		return "```mermaid\n" + b.Code + "\n```"
	}

	keys := make([]string, 0, len(b.Attrs))
	for k := range b.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+": "+b.Attrs[k])
	}
	return "```mermaid {" + strings.Join(pairs, ", ") + "}\n" + b.Code + "\n```"
}
