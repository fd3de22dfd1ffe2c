package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
}

func TestDocuments(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.md")
	writeFile(t, root, "guide/setup.markdown")
	writeFile(t, root, "guide/page.html")
	writeFile(t, root, "notes.txt")
	writeFile(t, root, "logo.svg")
	writeFile(t, root, "node_modules/pkg/readme.md")
	writeFile(t, root, "_drafts/wip.md")
	writeFile(t, root, "assets/images/old.md")

	docs, err := Documents(root, "assets/images")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"index.md",
		filepath.Join("guide", "setup.markdown"),
		filepath.Join("guide", "page.html"),
	}, docs)
}

func TestDocumentsNoOutputDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md")
	writeFile(t, root, "assets/b.md")

	docs, err := Documents(root, "")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentsMissingRoot(t *testing.T) {
	_, err := Documents(filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)
}

func TestIsHTML(t *testing.T) {
	assert.True(t, IsHTML("page.html"))
	assert.True(t, IsHTML("page.HTM"))
	assert.False(t, IsHTML("page.md"))
	assert.False(t, IsHTML("https://example.com/page"))
}
