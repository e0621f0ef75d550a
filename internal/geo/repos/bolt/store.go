// Package bolt persists denial counters and the activity log in a single
// bbolt database. Every mutation runs inside one write transaction, so the
// counter increment and the capped log prepend are atomic primitives rather
// than last-write-wins blob updates.
package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/geofence/internal/geo/domain"
	"github.com/haukened/geofence/internal/geo/repos/activity"
	"github.com/haukened/geofence/internal/geo/repos/counter"
)

var (
	bucketBlocks   = []byte("blocks")
	bucketActivity = []byte("activity")

	keyLog = []byte("log")
)

// Store implements counter.Store and activity.Store over one bbolt file.
type Store struct {
	db *bbolt.DB
}

var (
	_ counter.Store  = (*Store)(nil)
	_ activity.Store = (*Store)(nil)
)

// New opens (or creates) a bolt database at path and ensures buckets exist.
func New(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketBlocks); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketActivity); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Increment adds one to the country's count in the date's bucket. The whole
// read-modify-write happens in a single write transaction.
func (s *Store) Increment(date domain.Date, country string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBlocks)
		day, err := decodeBucket(b.Get([]byte(date)))
		if err != nil {
			return fmt.Errorf("decode bucket %s: %w", date, err)
		}
		day[country]++
		raw, err := json.Marshal(day)
		if err != nil {
			return fmt.Errorf("encode bucket %s: %w", date, err)
		}
		return b.Put([]byte(date), raw)
	})
}

// Window loads one bucket per date in the given order, treating missing
// buckets as empty.
func (s *Store) Window(dates []domain.Date) ([]domain.DayBucket, error) {
	out := make([]domain.DayBucket, len(dates))
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBlocks)
		for i, d := range dates {
			day, err := decodeBucket(b.Get([]byte(d)))
			if err != nil {
				return fmt.Errorf("decode bucket %s: %w", d, err)
			}
			out[i] = day
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the bucket for the date. Missing buckets are a no-op.
func (s *Store) Delete(date domain.Date) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBlocks).Delete([]byte(date))
	})
}

// Prepend inserts the entry at the head of the log and truncates to
// capacity, all within one write transaction.
func (s *Store) Prepend(entry domain.ActivityEntry, capacity int) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketActivity)
		entries, err := decodeLog(b.Get(keyLog))
		if err != nil {
			return fmt.Errorf("decode activity log: %w", err)
		}
		entries = append([]domain.ActivityEntry{entry}, entries...)
		if len(entries) > capacity {
			entries = entries[:capacity]
		}
		raw, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("encode activity log: %w", err)
		}
		return b.Put(keyLog, raw)
	})
}

// All returns the full log, newest first; a missing log reads as empty.
func (s *Store) All() ([]domain.ActivityEntry, error) {
	var entries []domain.ActivityEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		var derr error
		entries, derr = decodeLog(tx.Bucket(bucketActivity).Get(keyLog))
		return derr
	})
	if err != nil {
		return nil, fmt.Errorf("decode activity log: %w", err)
	}
	return entries, nil
}

// Clear removes the log entirely.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketActivity).Delete(keyLog)
	})
}

func decodeBucket(raw []byte) (domain.DayBucket, error) {
	day := domain.DayBucket{}
	if len(raw) == 0 {
		return day, nil
	}
	if err := json.Unmarshal(raw, &day); err != nil {
		return nil, err
	}
	return day, nil
}

func decodeLog(raw []byte) ([]domain.ActivityEntry, error) {
	if len(raw) == 0 {
		return []domain.ActivityEntry{}, nil
	}
	var entries []domain.ActivityEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
