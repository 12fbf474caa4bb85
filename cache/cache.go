// ABOUTME: Badger-backed snapshot cache for offline last-known-good state
// ABOUTME: Stores the latest board load and team directory as JSON blobs
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v3"

	"github.com/motorlot/leadboard/models"
)

var (
	keyBoard = []byte("board")
	keyTeam  = []byte("team")
)

// Cache persists the most recent successful board load so a cold start or a
// failed load can fall back to something instead of an empty screen. It is a
// fallback only; the store in memory stays authoritative.
type Cache struct {
	db *badger.DB
}

type boardSnapshot struct {
	Leads   []models.Lead `json:"leads"`
	SavedAt time.Time     `json:"saved_at"`
}

// Open opens (or creates) the cache at the given directory.
func Open(path string) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logging is noisy for a side cache
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close flushes and closes the cache.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func (c *Cache) get(key []byte, out any) (bool, error) {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(data []byte) error {
			return json.Unmarshal(data, out)
		})
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveBoard stores a successful board load.
func (c *Cache) SaveBoard(leads []models.Lead) error {
	return c.set(keyBoard, boardSnapshot{Leads: leads, SavedAt: time.Now()})
}

// LoadBoard returns the last saved board snapshot, if any.
func (c *Cache) LoadBoard() ([]models.Lead, time.Time, bool, error) {
	var snap boardSnapshot
	found, err := c.get(keyBoard, &snap)
	if err != nil || !found {
		return nil, time.Time{}, false, err
	}
	return snap.Leads, snap.SavedAt, true, nil
}

// SaveTeam stores the team directory.
func (c *Cache) SaveTeam(members []models.TeamMember) error {
	return c.set(keyTeam, members)
}

// LoadTeam returns the last saved team directory, if any.
func (c *Cache) LoadTeam() ([]models.TeamMember, bool, error) {
	var members []models.TeamMember
	found, err := c.get(keyTeam, &members)
	return members, found, err
}
