package mermaid

import (
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"

	"github.com/mermaid-tools/mermaidpipe/core"
)

// inspectSVG rejects a rendered file whose root is not an <svg> element.
// mmdc occasionally exits 0 after writing an error page to the output path
// instead of a diagram; catching that here keeps broken images out of the
// rewritten document.
func inspectSVG(path, code string, logger *log.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return &core.FileError{
			Message:    fmt.Sprintf("opening rendered SVG: %s", path),
			Path:       path,
			Op:         "read",
			Suggestion: "check permissions on the output directory",
			Err:        err,
		}
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return &core.ImageError{
			Message:       fmt.Sprintf("rendered SVG is not parseable: %s", path),
			ImagePath:     path,
			Format:        "svg",
			DiagramSource: core.TruncateDiagram(code),
			Suggestion:    "check mermaid syntax and CLI configuration",
		}
	}

	svg := doc.Find("svg").First()
	if svg.Length() == 0 {
		return &core.ImageError{
			Message:       fmt.Sprintf("rendered file contains no svg element: %s", path),
			ImagePath:     path,
			Format:        "svg",
			DiagramSource: core.TruncateDiagram(code),
			Suggestion:    "check mermaid syntax and CLI configuration",
		}
	}

	width, _ := svg.Attr("width")
	height, _ := svg.Attr("height")
	if width != "" || height != "" {
		logger.Debug("rendered svg", "width", width, "height", height)
	}
	return nil
}
