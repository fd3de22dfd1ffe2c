package htmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Setup Guide</title></head>
<body>
<nav><a href="/">home</a></nav>
<main>
<h1>Setup</h1>
<p>Install the tool.</p>
<pre><code class="language-mermaid">graph TD
  A --> B</code></pre>
</main>
<footer>copyright</footer>
</body>
</html>`

func TestToMarkdownIsolatesMain(t *testing.T) {
	c := New()

	md, err := c.ToMarkdown(samplePage)
	require.NoError(t, err)

	assert.Contains(t, md, "# Setup")
	assert.Contains(t, md, "Install the tool.")
	assert.NotContains(t, md, "home")
	assert.NotContains(t, md, "copyright")
	// The mermaid code survives as a fenced block for the scanner.
	assert.Contains(t, md, "graph TD")
}

func TestToMarkdownFallsBackToBody(t *testing.T) {
	c := New()

	md, err := c.ToMarkdown("<html><body><p>just text</p></body></html>")
	require.NoError(t, err)
	assert.Contains(t, md, "just text")
}

func TestTitle(t *testing.T) {
	c := New()
	assert.Equal(t, "Setup Guide", c.Title(samplePage))
	assert.Equal(t, "", c.Title("<html><body></body></html>"))
}
