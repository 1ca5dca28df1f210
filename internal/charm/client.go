// ABOUTME: Charm KV client wrapper for training data storage.
// ABOUTME: Provides thread-safe initialization and automatic cloud sync.
package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/harperreed/trainer/internal/storage"
)

const (
	// DefaultDBName is the KV database name used when none is configured.
	DefaultDBName = "trainer"
	// DefaultHost is the Charm server used when CHARM_HOST is unset.
	DefaultHost = "charm.2389.dev"

	ExercisePrefix = "exercise:"
	ProfilePrefix  = "profile:"
	WorkoutPrefix  = "workout:"
	RecordPrefix   = "record:"
)

// ErrReadOnly is returned for writes while another process holds the KV lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// kvStore is the subset of *kv.KV the client relies on.
type kvStore interface {
	Keys() ([][]byte, error)
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Sync() error
	Reset() error
	IsReadOnly() bool
	Close() error
}

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Client stores training data in a Charm KV database.
type Client struct {
	kv       kvStore
	autoSync bool
	mu       sync.RWMutex
}

// Compile-time check that Client implements storage.Repository.
var _ storage.Repository = (*Client)(nil)

// Options configures InitClient.
type Options struct {
	DBName   string
	Host     string
	AutoSync bool
}

// InitClient initializes the global Charm client.
// Thread-safe; later calls return the first client regardless of opts.
func InitClient(opts Options) (*Client, error) {
	clientOnce.Do(func() {
		host := opts.Host
		if host == "" {
			host = os.Getenv("CHARM_HOST")
		}
		if host == "" {
			host = DefaultHost
		}
		// Set server before opening KV
		if err := os.Setenv("CHARM_HOST", host); err != nil {
			clientErr = err
			return
		}

		name := opts.DBName
		if name == "" {
			name = DefaultDBName
		}
		db, err := kv.OpenWithDefaultsFallback(name)
		if err != nil {
			clientErr = err
			return
		}

		globalClient = newClient(db, opts.AutoSync)

		// Pull remote data on startup (skip in read-only mode)
		if !db.IsReadOnly() {
			_ = db.Sync()
		}
	})

	return globalClient, clientErr
}

func newClient(store kvStore, autoSync bool) *Client {
	return &Client{kv: store, autoSync: autoSync}
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// syncIfEnabled calls Sync if autoSync is enabled. Callers hold mu.
func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// The helpers below expect the caller to hold mu.

// setLocked stores a value with the given key.
func (c *Client) setLocked(key string, data []byte) error {
	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	return c.kv.Set([]byte(key), data)
}

// deleteLocked removes a key.
func (c *Client) deleteLocked(key string) error {
	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	return c.kv.Delete([]byte(key))
}

// getLocked returns the value for key, or storage.ErrNotFound.
func (c *Client) getLocked(key, what string) ([]byte, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	want := []byte(key)
	for _, k := range keys {
		if bytes.Equal(k, want) {
			return c.kv.Get(k)
		}
	}
	return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, what)
}

// listLocked returns all keys and values matching the given prefix.
func (c *Client) listLocked(prefix string) (map[string][]byte, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	results := make(map[string][]byte)
	prefixBytes := []byte(prefix)
	for _, key := range keys {
		if bytes.HasPrefix(key, prefixBytes) {
			val, err := c.kv.Get(key)
			if err != nil {
				return nil, err
			}
			results[string(key)] = val
		}
	}
	return results, nil
}

// resolveLocked finds the single key under typePrefix whose ID starts with idPrefix.
func (c *Client) resolveLocked(typePrefix, idPrefix string) (string, []byte, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return "", nil, err
	}

	searchPrefix := []byte(typePrefix + idPrefix)
	var matches [][]byte
	for _, key := range keys {
		if bytes.HasPrefix(key, searchPrefix) {
			matches = append(matches, key)
			if len(matches) > 1 {
				return "", nil, fmt.Errorf("%w %s: matches multiple records", storage.ErrAmbiguousPrefix, idPrefix)
			}
		}
	}

	if len(matches) == 0 {
		return "", nil, fmt.Errorf("%w: %s", storage.ErrNotFound, idPrefix)
	}

	val, err := c.kv.Get(matches[0])
	if err != nil {
		return "", nil, err
	}
	return string(matches[0]), val, nil
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// marshalJSON is a helper to marshal data to JSON.
func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// extractID extracts the ID portion from a prefixed key.
func extractID(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}
