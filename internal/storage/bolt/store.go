// Package bolt keeps daily reports in an embedded bbolt file.
package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	interfaces "github.com/sheikh-saqib/daily-cash-reconciliation/internal/interfaces"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

// BucketReports holds one JSON-encoded LedgerEntry per key.
const BucketReports = "daily_reports"

// keySep cannot appear in corporation or branch names typed by an operator.
const keySep = "\x1f"

// Store represents the bbolt database wrapper.
type Store struct {
	db *bolt.DB
}

// Open opens the database file and creates the reports bucket.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketReports)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketReports, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// branchPrefix sorts every date of one branch together; dates sort chronologically.
func branchPrefix(corporation, branch string) []byte {
	return []byte(corporation + keySep + branch + keySep)
}

func entryKey(key models.EntryKey) []byte {
	return append(branchPrefix(key.Corporation, key.Branch), key.DateString()...)
}

func (s *Store) FindEntry(ctx context.Context, key models.EntryKey) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(BucketReports)).Get(entryKey(key))
		if data == nil {
			return nil
		}
		var e models.LedgerEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("failed to decode entry %s: %w", key, err)
		}
		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Store) EntryExists(ctx context.Context, key models.EntryKey) (bool, error) {
	var exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket([]byte(BucketReports)).Get(entryKey(key)) != nil
		return nil
	})
	return exists, err
}

// InsertEntry stores entry unless its key is taken; the check and the write share one transaction.
func (s *Store) InsertEntry(ctx context.Context, entry models.LedgerEntry) (int64, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return 0, fmt.Errorf("failed to encode entry: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketReports))
		k := entryKey(entry.EntryKey)
		if b.Get(k) != nil {
			return fmt.Errorf("%w: %s", interfaces.ErrDuplicateEntry, entry.EntryKey)
		}
		return b.Put(k, data)
	})
	if err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *Store) ListEntries(ctx context.Context, corporation, branch string, from, to time.Time) ([]models.LedgerEntry, error) {
	prefix := branchPrefix(corporation, branch)
	start := append(append([]byte(nil), prefix...), from.Format(models.DateLayout)...)
	end := to.Format(models.DateLayout)

	var entries []models.LedgerEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(BucketReports)).Cursor()
		for k, v := c.Seek(start); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if string(k[len(prefix):]) > end {
				break
			}
			var e models.LedgerEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("failed to decode entry %q: %w", k, err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

var _ interfaces.LedgerStore = (*Store)(nil)
