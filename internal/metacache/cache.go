package metacache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"cinepick/internal/logging"
)

const lockFileName = ".lock"

// Cache stores TMDB payloads as JSON files that expire after a fixed TTL.
// Writers on the same directory are serialised with a file lock so the CLI
// and a running server can share one cache. A nil *Cache is a disabled cache.
type Cache struct {
	dir    string
	ttl    time.Duration
	lock   *flock.Flock
	logger *slog.Logger
	now    func() time.Time
}

// New creates a cache rooted at dir. The directory is created on demand.
func New(dir string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("cache directory required")
	}
	if ttl <= 0 {
		return nil, errors.New("cache ttl must be positive")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Cache{
		dir:    dir,
		ttl:    ttl,
		lock:   flock.New(filepath.Join(dir, lockFileName)),
		logger: logging.NewComponentLogger(logger, "metacache"),
		now:    time.Now,
	}, nil
}

// Key builds a stable file-safe key from its parts.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:16])
}

// Get decodes the entry for key into v. It reports false for missing,
// expired, or unreadable entries; expired entries are removed.
func (c *Cache) Get(key string, v any) bool {
	if c == nil || key == "" {
		return false
	}
	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if c.now().Sub(info.ModTime()) > c.ttl {
		_ = os.Remove(path)
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Debug("discarding unreadable cache entry", logging.String("key", key), logging.Error(err))
		_ = os.Remove(path)
		return false
	}
	return true
}

// Set stores v under key, replacing any previous entry atomically.
func (c *Cache) Set(key string, v any) error {
	if c == nil {
		return nil
	}
	if key == "" {
		return errors.New("empty cache key")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	defer func() { _ = c.lock.Unlock() }()

	path := c.path(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Clear removes every cached entry and returns how many were deleted.
func (c *Cache) Clear() (int, error) {
	if c == nil {
		return 0, nil
	}
	if err := c.lock.Lock(); err != nil {
		return 0, fmt.Errorf("lock cache: %w", err)
	}
	defer func() { _ = c.lock.Unlock() }()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read cache directory: %w", err)
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			continue
		}
		removed++
	}
	c.logger.Debug("cleared metadata cache", logging.Int("removed", removed))
	return removed, nil
}

// Count returns the number of stored entries, expired ones included.
func (c *Cache) Count() int {
	if c == nil {
		return 0
	}
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return 0
	}
	return len(matches)
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}
