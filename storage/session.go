// Package storage persists browser sessions in a local bbolt database so
// a logged-in session survives a process restart. Only the session record
// (with its sealed token) is persisted; note and user data is always
// refetched from the remote service.
package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var sessionBucket = []byte("Sessions")

// BoltStorage implements the fiber session storage interface on bbolt.
type BoltStorage struct {
	db   *bbolt.DB
	stop chan struct{}
}

// NewBoltStorage opens (or creates) the session database under dataDir.
func NewBoltStorage(dataDir string) (*BoltStorage, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sessions.db")
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltStorage{
		db:   db,
		stop: make(chan struct{}),
	}
	go s.gcLoop()

	return s, nil
}

// Records are stored as an 8-byte big-endian expiry (unix nanoseconds,
// zero for no expiry) followed by the session payload.

func encodeRecord(val []byte, exp time.Duration) []byte {
	record := make([]byte, 8+len(val))
	if exp > 0 {
		binary.BigEndian.PutUint64(record, uint64(time.Now().Add(exp).UnixNano()))
	}
	copy(record[8:], val)
	return record
}

func decodeRecord(record []byte) ([]byte, bool) {
	if len(record) < 8 {
		return nil, false
	}
	expiry := int64(binary.BigEndian.Uint64(record))
	if expiry > 0 && time.Now().UnixNano() > expiry {
		return nil, false
	}
	val := make([]byte, len(record)-8)
	copy(val, record[8:])
	return val, true
}

// Get returns the session payload for key, nil when absent or expired.
func (s *BoltStorage) Get(key string) ([]byte, error) {
	var val []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		record := tx.Bucket(sessionBucket).Get([]byte(key))
		if record == nil {
			return nil
		}
		if decoded, ok := decodeRecord(record); ok {
			val = decoded
		}
		return nil
	})
	return val, err
}

// Set stores a session payload with the given TTL, zero meaning no expiry.
func (s *BoltStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Put([]byte(key), encodeRecord(val, exp))
	})
}

// Delete removes one session.
func (s *BoltStorage) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete([]byte(key))
	})
}

// Reset drops every session.
func (s *BoltStorage) Reset() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(sessionBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(sessionBucket)
		return err
	})
}

// Close stops the janitor and closes the database.
func (s *BoltStorage) Close() error {
	close(s.stop)
	return s.db.Close()
}

func (s *BoltStorage) gcLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.gc()
		case <-s.stop:
			return
		}
	}
}

// gc removes expired session records.
func (s *BoltStorage) gc() {
	now := time.Now().UnixNano()
	_ = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(sessionBucket)
		cursor := bucket.Cursor()

		var expired [][]byte
		for k, record := cursor.First(); k != nil; k, record = cursor.Next() {
			if len(record) < 8 {
				continue
			}
			expiry := int64(binary.BigEndian.Uint64(record))
			if expiry > 0 && now > expiry {
				key := make([]byte, len(k))
				copy(key, k)
				expired = append(expired, key)
			}
		}

		for _, key := range expired {
			if err := bucket.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
