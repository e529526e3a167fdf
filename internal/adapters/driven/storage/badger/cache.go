// Package badger provides a persistent key/value cache backed by BadgerDB.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/logger"
)

// Ensure Cache implements the interface.
var _ driven.Cache = (*Cache)(nil)

// DefaultDirName is the cache directory inside the data directory.
const DefaultDirName = "cache"

// Cache stores AI responses on disk so they survive restarts.
type Cache struct {
	db   *badger.DB
	path string
}

// loggerAdapter routes badger's log output through internal/logger.
type loggerAdapter struct{}

var _ badger.Logger = loggerAdapter{}

func (loggerAdapter) Errorf(msg string, items ...any)   { logger.Error("badger: "+msg, items...) }
func (loggerAdapter) Warningf(msg string, items ...any) { logger.Warn("badger: "+msg, items...) }
func (loggerAdapter) Infof(msg string, items ...any)    { logger.Debug("badger: "+msg, items...) }
func (loggerAdapter) Debugf(msg string, items ...any)   { logger.Debug("badger: "+msg, items...) }

// Open opens the cache in dataDir/cache, creating it if needed.
// If dataDir is empty, defaults to ~/.archivo/data.
func Open(dataDir string) (*Cache, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".archivo", "data")
	}
	dir := filepath.Join(dataDir, DefaultDirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return open(badger.DefaultOptions(dir), dir)
}

// OpenInMemory opens a cache that lives only as long as the process.
func OpenInMemory() (*Cache, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), "")
}

func open(opts badger.Options, path string) (*Cache, error) {
	opts.Logger = loggerAdapter{}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return &Cache{db: db, path: path}, nil
}

// Get returns the value stored under key. A missing or expired key is a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return value, true, nil
}

// Set stores value under key. A zero ttl never expires.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Path returns the cache directory, or "" for an in-memory cache.
func (c *Cache) Path() string {
	return c.path
}

// Close flushes and closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
