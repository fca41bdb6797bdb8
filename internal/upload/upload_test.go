package upload

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0x10, 'J', 'F', 'I', 'F', 0}
)

// fileHeader builds a real multipart.FileHeader carrying content.
func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

func newSpooler(t *testing.T, max int64) (*Spooler, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s, err := NewSpooler(fs, "tmp", max)
	require.NoError(t, err)
	return s, fs
}

func TestSpool_SizeBoundary(t *testing.T) {
	s, fs := newSpooler(t, 16)

	f, err := s.Spool(fileHeader(t, "comprobante", "a.png", pngBytes), "comprobante")
	require.NoError(t, err, "exactly the ceiling is accepted")
	assert.Equal(t, int64(16), f.Size)
	assert.Equal(t, "a.png", f.OriginalName)

	_, err = s.Spool(fileHeader(t, "comprobante", "b.png", append(pngBytes, 0)), "comprobante")
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := afero.ReadDir(fs, "tmp")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "rejected file leaves nothing behind")
}

func TestSpool_ClientSizeNotTrusted(t *testing.T) {
	s, fs := newSpooler(t, 8)
	fh := fileHeader(t, "recibo", "r.png", pngBytes)
	fh.Size = 4

	_, err := s.Spool(fh, "recibo")

	assert.ErrorIs(t, err, ErrTooLarge)
	entries, _ := afero.ReadDir(fs, "tmp")
	assert.Empty(t, entries)
}

func TestDetectImage(t *testing.T) {
	s, _ := newSpooler(t, 1024)

	tests := []struct {
		name    string
		content []byte
		wantCT  string
		wantErr bool
	}{
		{"png", pngBytes, "image/png", false},
		{"jpeg", jpegBytes, "image/jpeg", false},
		{"pdf", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), "", true},
		{"text named png", []byte("hello world"), "", true},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := s.Spool(fileHeader(t, "comprobante", "x.png", tt.content), "comprobante")
			require.NoError(t, err)
			defer s.Remove(f)

			err = s.DetectImage(f)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotImage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCT, f.ContentType)
			assert.NotEmpty(t, f.Ext)
		})
	}
}

func TestRemove_NilSafe(t *testing.T) {
	s, fs := newSpooler(t, 64)
	f, err := s.Spool(fileHeader(t, "recibo", "r.png", pngBytes), "recibo")
	require.NoError(t, err)

	s.Remove(nil, f, &File{})

	exists, _ := afero.Exists(fs, f.Path)
	assert.False(t, exists)
}

func TestNewSpooler_InvalidLimit(t *testing.T) {
	_, err := NewSpooler(afero.NewMemMapFs(), "tmp", 0)
	assert.Error(t, err)
}
