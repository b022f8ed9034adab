package fetch

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	serveerrors "github.com/ColeHoward/fileserve/internal/errors"
	"github.com/ColeHoward/fileserve/internal/types"
)

func TestResolveContentType(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    types.ContentType
		wantErr bool
	}{
		{name: "html", path: "/www/index.html", want: types.HTML},
		{name: "pdf", path: "/www/doc.pdf", want: types.PDF},
		{name: "css", path: "/www/site.css", want: types.CSS},
		{name: "jpg lowercase", path: "/www/cat.jpg", want: types.JPG},
		{name: "jpg uppercase", path: "/www/cat.JPG", want: types.JPG},
		{name: "mixed case html", path: "/www/Index.HtMl", want: types.HTML},
		{name: "nested dots", path: "/www/archive.v2.css", want: types.CSS},
		{name: "unsupported", path: "/www/readme.txt", wantErr: true},
		{name: "jpeg not known", path: "/www/cat.jpeg", wantErr: true},
		{name: "no extension", path: "/www/Makefile", wantErr: true},
		{name: "trailing dot", path: "/www/file.", wantErr: true},
		{name: "dotfile", path: "/www/.html", wantErr: true},
		{name: "directory path", path: "/www/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveContentType(tt.path)
			if tt.wantErr {
				if !errors.Is(err, serveerrors.ErrUnsupportedExtension) {
					t.Fatalf("ResolveContentType(%q) error = %v, want UnsupportedExtension", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveContentType(%q) unexpected error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("ResolveContentType(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFetchSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]struct {
		data []byte
		want types.ContentType
	}{
		"index.html": {[]byte("<p>hi</p>"), types.HTML},
		"doc.pdf":    {[]byte("%PDF-1.4\x00\x01\x02"), types.PDF},
		"site.css":   {[]byte("body { color: red; }"), types.CSS},
		"cat.JPG":    {[]byte{0xff, 0xd8, 0xff, 0xe0}, types.JPG},
		"empty.html": {[]byte{}, types.HTML},
	}

	for name, f := range files {
		if err := os.WriteFile(filepath.Join(dir, name), f.data, 0644); err != nil {
			t.Fatal(err)
		}
	}

	for name, f := range files {
		t.Run(name, func(t *testing.T) {
			got, err := Fetch(filepath.Join(dir, name))
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if got.Type != f.want {
				t.Errorf("Type = %v, want %v", got.Type, f.want)
			}
			if !bytes.Equal(got.Data, f.data) {
				t.Errorf("Data = %q, want %q", got.Data, f.data)
			}
		})
	}
}

func TestFetchMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.html")

	_, err := Fetch(path)
	if !errors.Is(err, serveerrors.ErrIo) {
		t.Fatalf("error = %v, want IoError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected cause to be fs.ErrNotExist, got %v", err)
	}
}

func TestFetchDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "pages.html")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}

	_, err := Fetch(sub)
	if serveerrors.CodeOf(err) != serveerrors.IoError {
		t.Fatalf("error = %v, want IoError", err)
	}
}

func TestFetchUnsupportedSkipsFilesystem(t *testing.T) {
	// the file does not exist, so an IoError would mean the disk was consulted
	_, err := Fetch(filepath.Join(t.TempDir(), "nothing-here.exe"))
	if serveerrors.CodeOf(err) != serveerrors.UnsupportedExtension {
		t.Fatalf("error = %v, want UnsupportedExtension", err)
	}
}
