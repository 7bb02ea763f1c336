package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"remap/internal/diag"
	"remap/internal/project"
	"remap/internal/srcmap"
)

// diskCacheSchema меняется вместе с форматом DiskPayload; записи другой
// схемы считаются промахом.
const diskCacheSchema uint16 = 1

const (
	entriesDir = "maps"
	entryExt   = ".mp"
)

// DiskCache stores finished job outputs under dir, keyed by the digest of
// every job input plus the engine fingerprint. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached job output.
type DiskPayload struct {
	Schema uint16
	Map    *srcmap.Map
	Merged string
	Stats  RunStats
	// Diagnostics of the producing run, observability excluded.
	Diagnostics []diag.Diagnostic
}

// OpenDiskCache creates dir when needed.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("disk cache: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("disk cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// entryPath shards by the first byte of the key.
func (c *DiskCache) entryPath(key project.Digest) string {
	name := key.Hex()
	return filepath.Join(c.dir, entriesDir, name[:2], name+entryExt)
}

// Put writes payload through a temp file and a rename, so readers never
// see a partial entry.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil || payload == nil {
		return nil
	}
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return writeAtomic(c.entryPath(key), data)
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Get fills out from the entry for key. A missing entry or one written
// under another schema reports false without an error.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	data, err := os.ReadFile(c.entryPath(key))
	c.mu.RUnlock()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}

	var payload DiskPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return false, fmt.Errorf("decode payload: %w", err)
	}
	if payload.Schema != diskCacheSchema || payload.Map == nil {
		return false, nil
	}
	*out = payload
	return true, nil
}

// Entries counts the stored payloads.
func (c *DiskCache) Entries() (int, error) {
	if c == nil {
		return 0, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	err := filepath.WalkDir(filepath.Join(c.dir, entriesDir), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(d.Name()) == entryExt {
			n++
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	return n, err
}

// DropAll removes every entry and returns how many there were. The cache
// directory itself stays.
func (c *DiskCache) DropAll() (int, error) {
	n, err := c.Entries()
	if err != nil || c == nil {
		return n, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(filepath.Join(c.dir, entriesDir)); err != nil {
		return 0, err
	}
	return n, nil
}

func newPayload(res *Result) *DiskPayload {
	payload := &DiskPayload{
		Schema: diskCacheSchema,
		Map:    res.Map,
		Merged: res.Merged,
		Stats:  res.Stats,
	}
	for _, d := range res.Bag.Items() {
		if d.Code.Observability() {
			continue
		}
		payload.Diagnostics = append(payload.Diagnostics, d)
	}
	return payload
}
