// Package discover walks a docs tree and returns the documents eligible for
// diagram processing, keeping tree traversal separate from the rewrite
// pipeline.
package discover

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/mermaid-tools/mermaidpipe/core"
)

// docExtensions are the file extensions treated as processable documents.
var docExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
}

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".venv":        true,
}

// Documents returns the relative paths of all processable documents under
// root, sorted by filepath.WalkDir's lexical order. The output directory is
// excluded so generated images never feed back into a later run.
func Documents(root, outputDir string) ([]string, error) {
	skipOutput := ""
	if outputDir != "" {
		skipOutput = filepath.Clean(filepath.Join(root, outputDir))
	}

	var docs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] || strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			if skipOutput != "" && filepath.Clean(path) == skipOutput {
				return filepath.SkipDir
			}
			return nil
		}
		if !docExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		docs = append(docs, rel)
		return nil
	})
	if err != nil {
		return nil, &core.FileError{
			Message:    "walking docs directory",
			Path:       root,
			Op:         "read",
			Suggestion: "check that the docs directory exists and is readable",
			Err:        err,
		}
	}
	return docs, nil
}

// IsHTML reports whether the path looks like an HTML document.
func IsHTML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}
