package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
)

type hashEntry struct {
	sha256  string
	modTime time.Time
	size    int64
}

// Hasher computes SHA-256 digests of model files and remembers them per title.
// A cached digest is reused while the file's mtime and size are unchanged.
type Hasher struct {
	cache *cache.Cache
}

func NewHasher() *Hasher {
	return &Hasher{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Sum returns the digest of the file at path, cached under title.
func (h *Hasher) Sum(path, title string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", title, err)
	}

	if x, found := h.cache.Get(title); found {
		entry := x.(hashEntry)
		if entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
			return entry.sha256, nil
		}
	}

	sum, err := sha256File(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", title, err)
	}

	h.cache.Set(title, hashEntry{sha256: sum, modTime: info.ModTime(), size: info.Size()}, cache.NoExpiration)
	return sum, nil
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	digest := sha256.New()
	buf := make([]byte, 1024*1024)
	if _, err := io.CopyBuffer(digest, f, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}
