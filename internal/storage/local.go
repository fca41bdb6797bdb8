package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// localStorage keeps objects as files under root. Locations are the public
// prefix joined with the key, served back by the HTTP layer.
type localStorage struct {
	fs     afero.Fs
	root   string
	prefix string
}

// NewLocal creates a disk backed Storage rooted at root. publicPrefix is the
// relative path locations start with, usually "uploads".
func NewLocal(fsys afero.Fs, root, publicPrefix string) (Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("local storage root is required")
	}
	if err := fsys.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &localStorage{
		fs:     fsys,
		root:   root,
		prefix: strings.Trim(normalizeSlashes(publicPrefix), "/"),
	}, nil
}

func (l *localStorage) path(key string) (string, error) {
	clean := path.Clean("/" + normalizeSlashes(key))
	if clean == "/" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(l.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (l *localStorage) Put(_ context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	p, err := l.path(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	if err := l.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return ObjectInfo{}, err
	}
	f, err := l.fs.Create(p)
	if err != nil {
		return ObjectInfo{}, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = l.fs.Remove(p)
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}, nil
}

func (l *localStorage) Get(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := l.fs.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ObjectInfo{}, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	info := ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		LastModified: st.ModTime(),
	}
	if mt, err := mimetype.DetectReader(f); err == nil {
		info.ContentType = mt.String()
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	return f, info, nil
}

func (l *localStorage) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := l.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// PresignGet returns the public location; local files need no signature.
func (l *localStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return l.Location(key), nil
}

func (l *localStorage) Location(key string) string {
	return path.Join(l.prefix, normalizeSlashes(key))
}

func (l *localStorage) Key(location string) (string, bool) {
	if location == "" || IsRemoteLocation(location) {
		return "", false
	}
	loc := strings.TrimPrefix(normalizeSlashes(location), "./")
	loc = strings.TrimPrefix(loc, "/")
	if l.prefix != "" {
		if !strings.HasPrefix(loc, l.prefix+"/") {
			return "", false
		}
		loc = strings.TrimPrefix(loc, l.prefix+"/")
	}
	if loc == "" {
		return "", false
	}
	return loc, true
}

// normalizeSlashes turns Windows separators found in rows written on Windows
// hosts into forward slashes.
func normalizeSlashes(s string) string {
	return strings.ReplaceAll(s, `\`, "/")
}
