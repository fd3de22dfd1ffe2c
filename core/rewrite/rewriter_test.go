package rewrite

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mermaid-tools/mermaidpipe/core"
	"github.com/mermaid-tools/mermaidpipe/core/paths"
	"github.com/mermaid-tools/mermaidpipe/core/scan"
)

// stubGenerator records calls and fails for diagrams listed in failFor.
type stubGenerator struct {
	calls   []string
	failFor map[string]bool
}

func (g *stubGenerator) Generate(code, outputPath string, opts core.RenderOptions) error {
	g.calls = append(g.calls, code)
	if g.failFor[code] {
		return errors.New("render failed")
	}
	return nil
}

func newProcessor(gen core.ImageGenerator, opts Options) *Processor {
	if opts.Render.Format == "" {
		opts.Render.Format = "svg"
	}
	return New(scan.New(nil), gen, paths.New(), opts, nil)
}

func TestProcessNoBlocksUnchanged(t *testing.T) {
	p := newProcessor(&stubGenerator{}, Options{OutputDir: "assets/images"})

	text := "# Title\n\nNo diagrams here.\n"
	out, images, err := p.Process("page.md", text, "out/assets/images")
	require.NoError(t, err)
	assert.Equal(t, text, out)
	assert.Empty(t, images)
}

func TestProcessRewritesBlock(t *testing.T) {
	gen := &stubGenerator{}
	p := newProcessor(gen, Options{OutputDir: "assets/images"})

	text := "before\n\n```mermaid\ngraph TD\n```\n\nafter\n"
	out, images, err := p.Process("page.md", text, "out/assets/images")
	require.NoError(t, err)
	require.Len(t, images, 1)

	assert.Equal(t, []string{"graph TD"}, gen.calls)
	assert.NotContains(t, out, "```mermaid")
	assert.Contains(t, out, "![Mermaid Diagram](assets/images/")
	assert.Contains(t, out, "before\n")
	assert.Contains(t, out, "\nafter\n")
}

func TestProcessSubstitutionOrder(t *testing.T) {
	p := newProcessor(&stubGenerator{}, Options{OutputDir: "img"})

	text := "```mermaid\ngraph TD\n```\nmiddle\n```mermaid\npie\n```\n"
	out, images, err := p.Process("page.md", text, "out/img")
	require.NoError(t, err)
	require.Len(t, images, 2)

	first := strings.Index(out, "_mermaid_0_")
	second := strings.Index(out, "_mermaid_1_")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
	assert.Contains(t, out, "middle")
	assert.NotContains(t, out, "```mermaid")
}

func TestProcessKeepSource(t *testing.T) {
	p := newProcessor(&stubGenerator{}, Options{OutputDir: "img", KeepSource: true})

	text := "```mermaid {theme: dark, width: 400}\ngraph TD\n```\n"
	out, _, err := p.Process("page.md", text, "out/img")
	require.NoError(t, err)

	idx := strings.Index(out, "![Mermaid Diagram](")
	require.GreaterOrEqual(t, idx, 0)
	// Original fence follows the image, attributes in sorted key order.
	assert.Contains(t, out, ")\n\n```mermaid {theme: dark, width: 400}\ngraph TD\n```")
}

func TestProcessErrorOnFailAborts(t *testing.T) {
	gen := &stubGenerator{failFor: map[string]bool{"graph TD": true}}
	p := newProcessor(gen, Options{OutputDir: "img", ErrorOnFail: true})

	text := "```mermaid\ngraph TD\n```\n"
	_, _, err := p.Process("page.md", text, "out/img")
	assert.Error(t, err)
}

func TestProcessFailedBlockSkipped(t *testing.T) {
	gen := &stubGenerator{failFor: map[string]bool{"bad diagram": true}}
	p := newProcessor(gen, Options{OutputDir: "img", ErrorOnFail: false})

	text := "```mermaid\nbad diagram\n```\nmiddle\n```mermaid\npie\n```\n"
	out, images, err := p.Process("page.md", text, "out/img")
	require.NoError(t, err)
	require.Len(t, images, 1)

	// The failed block stays in place; the good one is rewritten.
	assert.Contains(t, out, "```mermaid\nbad diagram\n```")
	assert.Contains(t, out, "![Mermaid Diagram](img/")
	assert.NotContains(t, out, "pie\n```")
}

func TestProcessAllBlocksFailedUnchanged(t *testing.T) {
	gen := &stubGenerator{failFor: map[string]bool{"graph TD": true}}
	p := newProcessor(gen, Options{OutputDir: "img", ErrorOnFail: false})

	text := "```mermaid\ngraph TD\n```\n"
	out, images, err := p.Process("page.md", text, "out/img")
	require.NoError(t, err)
	assert.Equal(t, text, out)
	assert.Empty(t, images)
}

func TestSubstituteCountMismatch(t *testing.T) {
	p := newProcessor(&stubGenerator{}, Options{})

	blocks := []core.DiagramBlock{{Code: "graph TD", Start: 0, End: 10}}
	_, err := p.substitute("page.md", "0123456789", blocks, nil)

	var parseErr *core.ParsingError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "page.md", parseErr.SourceFile)
}

func TestImageFilename(t *testing.T) {
	a := ImageFilename("docs/guide.md", 0, "graph TD", "svg")
	b := ImageFilename("docs/guide.md", 0, "graph TD", "svg")
	c := ImageFilename("docs/guide.md", 0, "graph LR", "svg")
	d := ImageFilename("docs/guide.md", 1, "graph TD", "png")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "guide_mermaid_0_"))
	assert.True(t, strings.HasSuffix(a, ".svg"))
	assert.True(t, strings.HasPrefix(d, "guide_mermaid_1_"))
	assert.True(t, strings.HasSuffix(d, ".png"))
}
