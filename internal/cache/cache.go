// Package cache stores compiled program images in a SQLite database, keyed
// by a digest of the source and the compiler settings.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gosc-lang/gosc/bytecode"
)

// FileName is the name of the database file inside the cache directory.
const FileName = "images.db"

// Cache is a compiled-image cache. It is safe for concurrent use.
type Cache struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Key returns the cache key for src compiled with the given settings. The
// settings are order sensitive.
func Key(src []byte, settings ...string) string {
	h := sha256.New()
	h.Write(src)
	for _, s := range settings {
		h.Write([]byte{0})
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Open opens the cache in dir, creating the directory and the database as
// needed.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	path := filepath.Join(dir, FileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS images (
		key TEXT PRIMARY KEY,
		image BLOB NOT NULL,
		created INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}
	return &Cache{db: db, path: path}, nil
}

// Path returns the database file path.
func (c *Cache) Path() string { return c.path }

// Get returns the program stored under key. The boolean is false on a
// miss.
func (c *Cache) Get(ctx context.Context, key string) (*bytecode.Program, bool, error) {
	var image []byte
	err := c.db.QueryRowContext(ctx, "SELECT image FROM images WHERE key = ?", key).Scan(&image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying image: %w", err)
	}
	program, err := bytecode.Unmarshal(image)
	if err != nil {
		return nil, false, fmt.Errorf("decoding cached image %s: %w", key, err)
	}
	return program, true, nil
}

// Put stores program under key, replacing any previous image.
func (c *Cache) Put(ctx context.Context, key string, program *bytecode.Program) error {
	image, err := bytecode.Marshal(program)
	if err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err = c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO images (key, image, created) VALUES (?, ?, ?)",
		key, image, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving image: %w", err)
	}
	return nil
}

// Len returns the number of stored images.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM images").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting images: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
