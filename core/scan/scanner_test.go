package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNoBlocks(t *testing.T) {
	s := New(nil)

	tests := []struct {
		name string
		text string
	}{
		{"empty document", ""},
		{"plain prose", "# Title\n\nSome paragraph text.\n"},
		{"other language fence", "```go\nfunc main() {}\n```\n"},
		{"unclosed fence", "```mermaid\ngraph TD\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, s.Extract(tt.text))
		})
	}
}

func TestExtractPlainBlock(t *testing.T) {
	s := New(nil)
	text := "intro\n\n```mermaid\ngraph TD\n  A --> B\n```\n\noutro\n"

	blocks := s.Extract(text)
	require.Len(t, blocks, 1)

	b := blocks[0]
	assert.Equal(t, "graph TD\n  A --> B", b.Code)
	assert.Empty(t, b.Attrs)
	assert.Equal(t, "```mermaid\ngraph TD\n  A --> B\n```", text[b.Start:b.End])
}

func TestExtractAttributedBlock(t *testing.T) {
	s := New(nil)
	text := "```mermaid {theme: dark, width: 400}\nsequenceDiagram\n  A->>B: hi\n```\n"

	blocks := s.Extract(text)
	require.Len(t, blocks, 1)

	b := blocks[0]
	assert.Equal(t, "sequenceDiagram\n  A->>B: hi", b.Code)
	assert.Equal(t, map[string]string{"theme": "dark", "width": "400"}, b.Attrs)
}

func TestExtractOrderAndMixedDialects(t *testing.T) {
	s := New(nil)
	text := "```mermaid\ngraph TD\n```\n\nmiddle\n\n```mermaid {theme: forest}\npie\n```\n"

	blocks := s.Extract(text)
	require.Len(t, blocks, 2)

	assert.Equal(t, "graph TD", blocks[0].Code)
	assert.Empty(t, blocks[0].Attrs)
	assert.Equal(t, "pie", blocks[1].Code)
	assert.Equal(t, "forest", blocks[1].Attrs["theme"])
	assert.Less(t, blocks[0].Start, blocks[1].Start)
	assert.LessOrEqual(t, blocks[0].End, blocks[1].Start)
}

func TestExtractContainmentDeduplication(t *testing.T) {
	// A brace group on the line after the fence opener satisfies both
	// patterns over the same span; only one block must survive.
	s := New(nil)
	text := "```mermaid\n{theme: dark}\ngraph TD\n```\n"

	blocks := s.Extract(text)
	require.Len(t, blocks, 1)
	assert.Equal(t, "graph TD", blocks[0].Code)
	assert.Equal(t, "dark", blocks[0].Attrs["theme"])
}

func TestExtractIsIdempotent(t *testing.T) {
	s := New(nil)
	text := "a\n```mermaid\ngraph LR\n```\nb\n```mermaid {width: 100}\npie\n```\nc\n"

	first := s.Extract(text)
	second := s.Extract(text)
	assert.Equal(t, first, second)
}
