// Package catalog stores extracted records in an embedded bbolt database.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"

	"github.com/simonhull/audioprobe/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var bucketRecords = []byte("records")

// Sentinel errors.
var (
	ErrNotFound  = errors.New("catalog entry not found")
	ErrInvalidID = errors.New("invalid catalog entry id")
)

// Entry is a stored record with the id and timestamp the catalog assigned.
type Entry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	types.Record
}

// Store is a catalog of records, newest first.
type Store struct {
	db     *bolt.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens or creates the catalog at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores rec under a new time-ordered id.
func (s *Store) Add(rec types.Record) (Entry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Entry{}, fmt.Errorf("generate id: %w", err)
	}

	entry := Entry{
		ID:        id.String(),
		CreatedAt: s.now().UTC(),
		Record:    rec,
	}
	value, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("encode entry: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRecords).Put(id[:], value)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("put entry: %w", err)
	}

	s.logger.Debug("catalog entry added", "id", entry.ID, "filename", rec.Filename)
	return entry, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (Entry, error) {
	key, err := parseID(id)
	if err != nil {
		return Entry{}, err
	}

	var entry Entry
	err = s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketRecords).Get(key)
		if value == nil {
			return ErrNotFound
		}
		return json.Unmarshal(value, &entry)
	})
	return entry, err
}

// List returns every entry, newest first.
func (s *Store) List() ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRecords).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("decode entry %x: %w", k, err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

// Delete removes the entry with the given id.
func (s *Store) Delete(id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		if b.Get(key) == nil {
			return ErrNotFound
		}
		return b.Delete(key)
	})
}

// Len returns the number of stored entries.
func (s *Store) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketRecords).Stats().KeyN
		return nil
	})
	return n, err
}

func parseID(id string) ([]byte, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return u[:], nil
}
