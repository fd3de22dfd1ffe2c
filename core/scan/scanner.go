// Package scan implements the Scanner interface.
// It extracts fenced mermaid blocks from raw Markdown text using two fence
// dialects: a plain fence and an attributed fence carrying a brace-delimited
// key:value list after the language tag.
package scan

import (
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mermaid-tools/mermaidpipe/core"
)

var (
	// Attributed fences are matched first; their bodies also satisfy the
	// plain pattern, so plain matches contained in an attributed span are
	// discarded as duplicate detections of the same fence.
	attrFencePattern  = regexp.MustCompile("(?s)```mermaid\\s*\\{([^}]*)\\}\\s*\n(.*?)\n```")
	plainFencePattern = regexp.MustCompile("(?s)```mermaid\\s*\n(.*?)\n```")
)

// BlockScanner extracts mermaid blocks from document text.
type BlockScanner struct {
	logger *log.Logger
}

// New creates a BlockScanner.
func New(logger *log.Logger) *BlockScanner {
	if logger == nil {
		logger = log.Default()
	}
	return &BlockScanner{logger: logger}
}

// Extract returns the ordered, non-overlapping list of mermaid blocks in
// text. Block bodies are trimmed of surrounding whitespace; spans refer to
// the original text.
func (s *BlockScanner) Extract(text string) []core.DiagramBlock {
	var blocks []core.DiagramBlock

	for _, m := range attrFencePattern.FindAllStringSubmatchIndex(text, -1) {
		rawAttrs := text[m[2]:m[3]]
		blocks = append(blocks, core.DiagramBlock{
			Code:  strings.TrimSpace(text[m[4]:m[5]]),
			Start: m[0],
			End:   m[1],
			Attrs: ParseAttributes(strings.TrimSpace(rawAttrs)),
		})
	}

	for _, m := range plainFencePattern.FindAllStringSubmatchIndex(text, -1) {
		if containedInAny(m[0], m[1], blocks) {
			continue
		}
		blocks = append(blocks, core.DiagramBlock{
			Code:  strings.TrimSpace(text[m[2]:m[3]]),
			Start: m[0],
			End:   m[1],
			Attrs: map[string]string{},
		})
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })

	s.logger.Debug("scanned document for mermaid blocks", "found", len(blocks))
	return blocks
}

// containedInAny reports whether the span [start, end) lies fully within one
// of the already recorded blocks.
func containedInAny(start, end int, blocks []core.DiagramBlock) bool {
	for _, b := range blocks {
		if start >= b.Start && end <= b.End {
			return true
		}
	}
	return false
}
