package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Provider names accepted by NewProvider.
const (
	ProviderLocal    = "local"
	ProviderSupabase = "supabase"
)

// Folders payment files are grouped under.
const (
	FolderProofs   = "comprobantes"
	FolderReceipts = "recibos"
)

// ErrNoRemote is returned when a bucket location must be handled but no
// bucket client is configured. ErrObjectNotFound means the backend has no
// object under the key.
var (
	ErrNoRemote       = errors.New("remote storage is not configured")
	ErrObjectNotFound = errors.New("object not found")
)

// Object identifies a stored file: its key in the backend and the location
// persisted on the owning row.
type Object struct {
	Key      string
	Location string
}

// Provider stores new files in the active backend and removes old files from
// whichever backend their stored location points at.
type Provider struct {
	active string
	local  Storage
	remote Storage
	now    func() time.Time
	random func() string
}

// NewProvider wires the active backend. local is required since rows written
// while the local backend was active keep pointing at it. remote may be nil
// unless active is ProviderSupabase.
func NewProvider(active string, local, remote Storage) (*Provider, error) {
	if local == nil {
		return nil, errors.New("local storage is required")
	}
	switch active {
	case ProviderLocal:
	case ProviderSupabase:
		if remote == nil {
			return nil, fmt.Errorf("storage provider %q: %w", active, ErrNoRemote)
		}
	default:
		return nil, fmt.Errorf("unknown storage provider %q", active)
	}
	return &Provider{
		active: active,
		local:  local,
		remote: remote,
		now:    time.Now,
		random: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		},
	}, nil
}

// Active returns the active provider name.
func (p *Provider) Active() string { return p.active }

func (p *Provider) backend() Storage {
	if p.active == ProviderSupabase {
		return p.remote
	}
	return p.local
}

// NewKey builds <folder>/<unix-millis>-<random><ext>. The extension follows
// contentType, which callers take from the sniffed bytes; the client file name
// never reaches the key, since the static file server picks the response
// Content-Type from it.
func (p *Provider) NewKey(folder, contentType string) string {
	return path.Join(folder, fmt.Sprintf("%d-%s%s", p.now().UnixMilli(), p.random(), imageExt(contentType)))
}

// imageExt maps an image MIME type to its canonical extension. Anything else
// gets .bin, which is served as application/octet-stream.
func imageExt(contentType string) string {
	mt := mimetype.Lookup(strings.ToLower(strings.TrimSpace(contentType)))
	if mt == nil || !strings.HasPrefix(mt.String(), "image/") || mt.Is("image/svg+xml") || mt.Extension() == "" {
		return ".bin"
	}
	return mt.Extension()
}

// Store uploads r into folder on the active backend. originalName is kept as
// object metadata only.
func (p *Provider) Store(ctx context.Context, folder, originalName string, r io.Reader, size int64, contentType string) (Object, error) {
	key := p.NewKey(folder, contentType)
	store := p.backend()
	if _, err := store.Put(ctx, key, r, PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": filepath.Base(originalName)},
	}); err != nil {
		return Object{}, fmt.Errorf("upload to storage: %w", err)
	}
	return Object{Key: key, Location: store.Location(key)}, nil
}

// Remove deletes the object a row refers to. The backend is chosen from the
// stored location, not from the active provider: URLs go to the bucket,
// relative paths to local disk. Key may be empty for rows written before keys
// were persisted; it is then derived from the location. Locations that belong
// to no known backend are left alone.
func (p *Provider) Remove(ctx context.Context, obj Object) error {
	store, key, err := p.resolve(obj)
	if err != nil || key == "" {
		return err
	}
	return store.Delete(ctx, key)
}

// Open reads back a stored object from the backend its location points at.
func (p *Provider) Open(ctx context.Context, obj Object) (io.ReadCloser, ObjectInfo, error) {
	store, key, err := p.resolve(obj)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	if key == "" {
		return nil, ObjectInfo{}, fmt.Errorf("unrecognized location %q", obj.Location)
	}
	return store.Get(ctx, key)
}

// SignedURL returns a time-limited download URL for a bucket object. Local
// locations come back unchanged; they are served by /uploads.
func (p *Provider) SignedURL(ctx context.Context, obj Object, ttl time.Duration) (string, error) {
	if !IsRemoteLocation(obj.Location) {
		return obj.Location, nil
	}
	store, key, err := p.resolve(obj)
	if err != nil {
		return "", err
	}
	if key == "" {
		return obj.Location, nil
	}
	return store.PresignGet(ctx, key, ttl)
}

// resolve picks the backend and key for obj. An empty key means obj does not
// point at any object this provider knows about.
func (p *Provider) resolve(obj Object) (Storage, string, error) {
	store := p.local
	if IsRemoteLocation(obj.Location) {
		if p.remote == nil {
			return nil, "", ErrNoRemote
		}
		store = p.remote
	}
	if obj.Key != "" {
		return store, obj.Key, nil
	}
	if obj.Location == "" {
		return store, "", nil
	}
	key, _ := store.Key(obj.Location)
	return store, key, nil
}
