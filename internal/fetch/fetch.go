// Package fetch maps request paths to content types and reads files from disk.
package fetch

import (
	"os"
	"path/filepath"
	"strings"

	serveerrors "github.com/ColeHoward/fileserve/internal/errors"
	"github.com/ColeHoward/fileserve/internal/types"
)

var extensions = map[string]types.ContentType{
	"html": types.HTML,
	"pdf":  types.PDF,
	"css":  types.CSS,
	"jpg":  types.JPG,
}

// ResolveContentType returns the content type for path's extension.
// Matching is case-insensitive. A dotfile such as ".html" has no extension.
func ResolveContentType(path string) (types.ContentType, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return 0, serveerrors.New(serveerrors.UnsupportedExtension, "missing file extension", path, nil)
	}

	ct, ok := extensions[strings.ToLower(ext[1:])]
	if !ok {
		return 0, serveerrors.New(serveerrors.UnsupportedExtension, "unsupported file extension", path, nil)
	}
	return ct, nil
}

// Fetch reads the whole file at path. The filesystem is not touched when the
// extension is unsupported.
func Fetch(path string) (types.FileContents, error) {
	ct, err := ResolveContentType(path)
	if err != nil {
		return types.FileContents{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.FileContents{}, serveerrors.New(serveerrors.IoError, "failed to read file", path, err)
	}

	return types.FileContents{Type: ct, Data: data}, nil
}
