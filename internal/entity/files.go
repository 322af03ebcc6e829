package entity

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type FileKind string

const (
	FileKindPDF   FileKind = "pdf"
	FileKindImage FileKind = "image"
)

// AllowedExtensions lists the lowercased extensions accepted into a selection.
var AllowedExtensions = map[string]FileKind{
	"pdf":  FileKindPDF,
	"png":  FileKindImage,
	"jpg":  FileKindImage,
	"jpeg": FileKindImage,
}

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// FileSource opens the bytes behind a selected file
type FileSource interface {
	Open() (io.ReadCloser, error)
}

type pathSource string

func (p pathSource) Open() (io.ReadCloser, error) {
	return os.Open(string(p))
}

type bytesSource []byte

func (b bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// SelectedFile is a user-chosen file waiting to be uploaded
type SelectedFile struct {
	Name        string     `json:"name"`
	Size        int64      `json:"size"`
	Kind        FileKind   `json:"kind"`
	ContentType string     `json:"content_type"`
	Source      FileSource `json:"-"`
}

// Extension returns the lowercased extension without the dot, or "" when the name has none.
func Extension(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// IsAllowed reports whether the file name carries one of AllowedExtensions.
func IsAllowed(name string) bool {
	_, ok := AllowedExtensions[Extension(name)]
	return ok
}

// NewSelectedFile builds a SelectedFile; Kind and ContentType are derived from the extension.
func NewSelectedFile(name string, size int64, source FileSource) SelectedFile {
	ext := Extension(name)
	kind, ok := AllowedExtensions[ext]
	if !ok {
		kind = FileKindImage
	}

	contentType, ok := contentTypes[ext]
	if !ok {
		contentType = "application/octet-stream"
	}

	return SelectedFile{
		Name:        name,
		Size:        size,
		Kind:        kind,
		ContentType: contentType,
		Source:      source,
	}
}

// FileFromBytes wraps in-memory content as a SelectedFile
func FileFromBytes(name string, content []byte) SelectedFile {
	return NewSelectedFile(name, int64(len(content)), bytesSource(content))
}

// FileFromPath stats a file on disk and wraps it as a SelectedFile
func FileFromPath(path string) (SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SelectedFile{}, err
	}
	if info.IsDir() {
		return SelectedFile{}, &os.PathError{Op: "select", Path: path, Err: ErrInvalidFile}
	}

	return NewSelectedFile(filepath.Base(path), info.Size(), pathSource(path)), nil
}
