package process

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// enough for any magic filetype knows about
const sniffLen = 262

// isArchiveFile checks file content, not extension: zip archives with
// SnapGene files are often named arbitrarily.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	kind, err := filetype.Archive(head[:n])
	if err != nil {
		return false, nil
	}
	return kind == matchers.TypeZip, nil
}

// hasSnapGeneExt reports whether name has one of configured extensions.
func hasSnapGeneExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
