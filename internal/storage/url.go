package storage

import (
	"net/url"
	"strings"
)

const publicObjectPath = "/storage/v1/object/public/"

// IsRemoteLocation reports whether a stored location is an absolute http(s) URL.
func IsRemoteLocation(location string) bool {
	l := strings.ToLower(strings.TrimSpace(location))
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// PublicURL builds the public object URL for key in bucket.
func PublicURL(base, bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + publicObjectPath + url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}

// ParsePublicURL extracts bucket and key from a public object URL. It reports
// false for anything not following the public object layout.
func ParsePublicURL(raw string) (bucket, key string, ok bool) {
	if !IsRemoteLocation(raw) {
		return "", "", false
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", false
	}
	_, rest, found := strings.Cut(u.Path, publicObjectPath)
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
