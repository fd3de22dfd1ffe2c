// Package htmldoc converts HTML documents into Markdown so they can be
// scanned for mermaid blocks. It isolates the main content first:
//  1. Finding the best content container (<main>, <article>, or <body>)
//  2. Removing noise elements (nav, footer, scripts, etc.)
//
// Mermaid code inside <pre> or <code> survives the conversion as a fenced
// code block, so the downstream scanner sees it like any hand-written fence.
package htmldoc

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are HTML elements removed before conversion.
// These contribute no document content and no diagrams.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"iframe", "video", "audio",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// Converter turns an HTML page into scannable Markdown.
type Converter struct{}

// New creates a Converter.
func New() *Converter {
	return &Converter{}
}

// ToMarkdown takes raw HTML and returns Markdown of the main content.
func (c *Converter) ToMarkdown(html string) (string, error) {
	fragment, err := c.isolate(html)
	if err != nil {
		return "", err
	}

	markdown, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}

// Title returns the <title> content of the page, or "" when absent.
func (c *Converter) Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// isolate strips noise and returns the main content fragment.
func (c *Converter) isolate(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	// Remove noise elements first (operates on the whole document).
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	// Find the best content container in priority order.
	// <main> is the most semantically correct, then <article>, then <body>.
	var content *goquery.Selection
	for _, tag := range []string{"main", "article", "body"} {
		sel := doc.Find(tag)
		if sel.Length() > 0 {
			content = sel.First()
			break
		}
	}

	if content == nil {
		return "", fmt.Errorf("no content container found in HTML")
	}

	result, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}
	return result, nil
}
