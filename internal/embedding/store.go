// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package embedding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/kitabu/internal/logging"
)

const storeKeyPrefix = "emb:"

// Store persists vectors in BadgerDB keyed by CacheKey. Values are raw
// little-endian float32s.
type Store struct {
	db *badger.DB
}

// OpenStore opens (or creates) a vector store at path. An empty path opens
// an in-memory store.
func OpenStore(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the stored vector for key.
func (s *Store) Get(key string) ([]float32, bool) {
	var vec []float32
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(storeKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			vec, err = decodeVector(val)
			return err
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("key", key).Msg("Vector store read failed")
		}
		return nil, false
	}
	return vec, true
}

// Add stores vec under key. Write failures are logged; the store is a cache
// and the caller already holds the vector.
func (s *Store) Add(key string, vec []float32) {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(storeKeyPrefix+key), encodeVector(vec))
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Vector store write failed")
	}
}

// Len counts stored vectors.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(storeKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// RunGC rewrites value log files until badger finds nothing worth
// reclaiming. Keys are overwritten on every rebuild, so the log grows
// without it.
func (s *Store) RunGC(discardRatio float64) (int, error) {
	n := 0
	for {
		err := s.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("vector store gc: %w", err)
		}
		n++
	}
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, x := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("corrupt vector: %d bytes", len(buf))
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return vec, nil
}
