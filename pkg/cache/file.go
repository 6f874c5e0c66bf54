package cache

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// entryExt marks cache entry files; Clear ignores anything else.
const entryExt = ".entry"

// FileCache stores entries under a local directory, one file per key.
//
// An entry file is a header line holding the expiry as Unix nanoseconds
// (0 for never) followed by the raw payload. Tables are stored verbatim
// rather than re-encoded, so a cached 20 MB CSV stays 20 MB on disk.
type FileCache struct {
	dir string
}

var _ Cache = (*FileCache)(nil)

// NewFileCache creates a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

// Get returns the payload for key. Expired or unreadable entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	expires, data, ok := decodeEntry(raw)
	if !ok || expired(expires, time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes key atomically. A zero ttl never expires.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = time.Now().Add(ttl).UnixNano()
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, encodeEntry(expires, data), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes key. Deleting a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes entries and returns how many were deleted. With
// expiredOnly, live entries are kept; unreadable ones always go.
func (c *FileCache) Clear(ctx context.Context, expiredOnly bool) (int, error) {
	now := time.Now()
	removed := 0
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, entryExt) {
			return nil
		}
		if expiredOnly {
			if raw, err := os.ReadFile(path); err == nil {
				if expires, _, ok := decodeEntry(raw); ok && !expired(expires, now) {
					return nil
				}
			}
		}
		if os.Remove(path) == nil {
			removed++
		}
		return nil
	})
	return removed, err
}

// Close is a no-op.
func (c *FileCache) Close() error { return nil }

// path spreads entries over 256 subdirectories by key hash.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

func encodeEntry(expires int64, data []byte) []byte {
	header := strconv.FormatInt(expires, 10)
	out := make([]byte, 0, len(header)+1+len(data))
	out = append(out, header...)
	out = append(out, '\n')
	return append(out, data...)
}

func decodeEntry(raw []byte) (expires int64, data []byte, ok bool) {
	header, data, found := bytes.Cut(raw, []byte{'\n'})
	if !found {
		return 0, nil, false
	}
	expires, err := strconv.ParseInt(string(header), 10, 64)
	if err != nil {
		return 0, nil, false
	}
	return expires, data, true
}

func expired(expires int64, now time.Time) bool {
	return expires != 0 && now.UnixNano() > expires
}
