// Package upload spools multipart files to a temporary directory and
// validates their content by magic bytes.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

var (
	// ErrTooLarge is returned when a file exceeds the configured ceiling.
	ErrTooLarge = errors.New("file too large")
	// ErrNotImage is returned when the sniffed content is not a raster image.
	ErrNotImage = errors.New("file is not an image")
)

// File is an uploaded file spooled to temporary storage.
type File struct {
	Field        string
	Path         string
	OriginalName string
	Size         int64
	// ContentType and Ext are filled in by DetectImage from the file content.
	ContentType string
	Ext         string
}

// Spooler copies request files into dir on fs, enforcing maxBytes per file.
type Spooler struct {
	fs       afero.Fs
	dir      string
	maxBytes int64
}

// NewSpooler creates the temp directory if needed.
func NewSpooler(fs afero.Fs, dir string, maxBytes int64) (*Spooler, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("upload limit must be positive, got %d", maxBytes)
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload temp dir: %w", err)
	}
	return &Spooler{fs: fs, dir: dir, maxBytes: maxBytes}, nil
}

// MaxBytes returns the per-file ceiling. A file of exactly MaxBytes is accepted.
func (s *Spooler) MaxBytes() int64 { return s.maxBytes }

// Spool copies fh to a temp file. Files over the ceiling are rejected before
// any byte is written.
func (s *Spooler) Spool(fh *multipart.FileHeader, field string) (*File, error) {
	if fh.Size > s.maxBytes {
		return nil, fmt.Errorf("%s: %w", field, ErrTooLarge)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer src.Close()

	tmp, err := afero.TempFile(s.fs, s.dir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	n, err := io.Copy(tmp, io.LimitReader(src, s.maxBytes+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	f := &File{Field: field, Path: tmp.Name(), OriginalName: fh.Filename, Size: n}
	if err != nil {
		s.Remove(f)
		return nil, fmt.Errorf("spool %s: %w", field, err)
	}
	// the header size is client supplied
	if n > s.maxBytes {
		s.Remove(f)
		return nil, fmt.Errorf("%s: %w", field, ErrTooLarge)
	}
	return f, nil
}

// Open opens a spooled file for reading.
func (s *Spooler) Open(f *File) (afero.File, error) {
	return s.fs.Open(f.Path)
}

// Remove deletes spooled files, ignoring nil entries and errors.
func (s *Spooler) Remove(files ...*File) {
	for _, f := range files {
		if f == nil || f.Path == "" {
			continue
		}
		_ = s.fs.Remove(f.Path)
	}
}

// DetectImage sniffs f's magic bytes and accepts raster images only. SVG is
// rejected since it is markup and can carry scripts.
func (s *Spooler) DetectImage(f *File) error {
	r, err := s.Open(f)
	if err != nil {
		return err
	}
	defer r.Close()

	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return fmt.Errorf("detect %s: %w", f.Field, err)
	}
	if !strings.HasPrefix(mt.String(), "image/") || mt.Is("image/svg+xml") {
		return fmt.Errorf("%s (%s): %w", f.Field, mt.String(), ErrNotImage)
	}
	f.ContentType = mt.String()
	f.Ext = mt.Extension()
	return nil
}
