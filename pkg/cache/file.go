package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry kinds, taken from the key prefix a [Keyer] writes.
const (
	KindResolve  = "resolve"
	KindArtifact = "artifact"
	kindOther    = "other"
)

// FileCache keeps one JSON file per entry, grouped by kind:
//
//	<dir>/resolve/ab/cdef....json
//	<dir>/artifact/12/3456....json
//
// Entries are written to a temp file and renamed into place, so a reader
// never sees half an entry.
type FileCache struct {
	dir string
}

// NewFileCache opens (and creates) a cache rooted at dir.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	entry, err := readEntry(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	// A hash collision or a truncated write both show up as a key mismatch.
	if entry == nil || entry.Key != key || entry.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	now := time.Now()
	entry := fileEntry{Key: key, Data: data, StoredAt: now}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return writeAtomic(c.path(key), raw)
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

// Clear removes the entries of the given kinds, or everything when no kind
// is named. The root directory is kept.
func (c *FileCache) Clear(kinds ...string) error {
	if len(kinds) == 0 {
		if err := os.RemoveAll(c.dir); err != nil {
			return err
		}
		return os.MkdirAll(c.dir, 0o755)
	}
	for _, kind := range kinds {
		if err := os.RemoveAll(filepath.Join(c.dir, kind)); err != nil {
			return err
		}
	}
	return nil
}

// Usage summarizes the entries of one kind.
type Usage struct {
	Kind    string
	Entries int
	Expired int
	Bytes   int64
}

// Usage walks the cache and reports entry counts per kind, sorted by kind.
// Unreadable entries count as expired.
func (c *FileCache) Usage() ([]Usage, error) {
	byKind := map[string]*Usage{}
	now := time.Now()
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		rel, _ := filepath.Rel(c.dir, path)
		kind, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
		u := byKind[kind]
		if u == nil {
			u = &Usage{Kind: kind}
			byKind[kind] = u
		}
		u.Entries++
		if info, err := d.Info(); err == nil {
			u.Bytes += info.Size()
		}
		if entry, err := readEntry(path); err != nil || entry == nil || entry.expired(now) {
			u.Expired++
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]Usage, 0, len(byKind))
	for _, u := range byKind {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out, nil
}

func (c *FileCache) path(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(c.dir, keyKind(key), sum[:2], sum[2:]+".json")
}

// keyKind maps "resolve:..." and "artifact:svg:..." to their directory. A
// scope prefix ("staging:resolve:...") is skipped.
func keyKind(key string) string {
	for _, seg := range strings.Split(key, ":") {
		switch seg {
		case KindResolve, KindArtifact:
			return seg
		}
	}
	return kindOther
}

// readEntry returns (nil, nil) for a file that is not a valid entry.
func readEntry(path string) (*fileEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry fileEntry
	if json.Unmarshal(raw, &entry) != nil {
		return nil, nil
	}
	return &entry, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ Cache = (*FileCache)(nil)
