package importer

import (
	"errors"
	"io/fs"
	"os"

	"github.com/SamuelMarks/go-import-helper/pkg/edit"
)

// FileBuffer is a Buffer backed by a file on disk.
// A missing file reads as an empty document and is created on the first edit.
type FileBuffer struct {
	Path string
}

// Text implements Buffer.
func (b FileBuffer) Text() (string, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ApplyEdit implements Buffer. The file is re-read so the edit applies to the
// content on disk, and its permissions are kept.
func (b FileBuffer) ApplyEdit(e edit.Edit) error {
	text, err := b.Text()
	if err != nil {
		return err
	}
	out, err := edit.Apply(text, e)
	if err != nil {
		return err
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(b.Path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(b.Path, []byte(out), mode)
}

// MemBuffer is an in-memory Buffer.
type MemBuffer struct {
	text  string
	edits int
}

// NewMemBuffer returns a buffer holding text.
func NewMemBuffer(text string) *MemBuffer {
	return &MemBuffer{text: text}
}

// Text implements Buffer.
func (b *MemBuffer) Text() (string, error) {
	return b.text, nil
}

// ApplyEdit implements Buffer.
func (b *MemBuffer) ApplyEdit(e edit.Edit) error {
	out, err := edit.Apply(b.text, e)
	if err != nil {
		return err
	}
	b.text = out
	b.edits++
	return nil
}

// String returns the current content.
func (b *MemBuffer) String() string {
	return b.text
}

// Edits returns how many edits have been applied.
func (b *MemBuffer) Edits() int {
	return b.edits
}
