package rewrite

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// ImageFilename returns the deterministic output file name for a block:
// document stem, zero-based block index, an 8-character hash of the trimmed
// diagram source, and the image format extension. The same diagram at the
// same position always maps to the same name, so re-rendering is idempotent.
func ImageFilename(docPath string, index int, code, format string) string {
	base := filepath.Base(docPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	sum := md5.Sum([]byte(code))
	hash := hex.EncodeToString(sum[:])[:8]

	return fmt.Sprintf("%s_mermaid_%d_%s.%s", stem, index, hash, format)
}
