package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/okian/roastcurve/internal/domain/session"
	"github.com/okian/roastcurve/pkg/logger"
	"github.com/okian/roastcurve/pkg/metrics"
)

var keyPrefix = []byte("session/")

// BadgerStore keeps sessions in an in-memory badger database. Values are
// JSON documents compressed with zstd; every Put resets the entry TTL.
type BadgerStore struct {
	db         *badger.DB
	compressor *Compressor
	log        logger.Logger
	closed     atomic.Bool

	ttl              time.Duration
	compressionLevel int
}

var _ SessionStore = (*BadgerStore)(nil)

// NewBadgerStore opens an in-memory session store.
func NewBadgerStore(_ context.Context, opts ...Option) (*BadgerStore, error) {
	s := &BadgerStore{
		ttl:              defaultTTL,
		compressionLevel: defaultCompressionLevel,
	}
	for _, opt := range opts {
		opt(s)
	}

	bopts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	compressor, err := NewCompressor(s.compressionLevel)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}

	s.db = db
	s.compressor = compressor
	return s, nil
}

func sessionKey(id string) []byte {
	return append(append([]byte{}, keyPrefix...), id...)
}

// Get implements SessionStore.
func (s *BadgerStore) Get(ctx context.Context, id string) (*session.Session, error) {
	start := time.Now()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		s.observe("get", "not_found", start)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		s.observe("get", "error", start)
		return nil, fmt.Errorf("read session %s: %w", id, err)
	}

	sess, err := s.decode(raw)
	if err != nil {
		s.observe("get", "error", start)
		return nil, err
	}
	s.observe("get", "ok", start)
	return sess, nil
}

// Put implements SessionStore.
func (s *BadgerStore) Put(ctx context.Context, sess *session.Session) error {
	start := time.Now()
	if err := s.ready(ctx); err != nil {
		return err
	}

	val, err := s.encode(sess)
	if err != nil {
		s.observe("put", "error", start)
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(sessionKey(sess.ID), val).WithTTL(s.ttl))
	})
	if err != nil {
		s.observe("put", "error", start)
		return fmt.Errorf("write session %s: %w", sess.ID, err)
	}

	metrics.RecordStoreEncodedSize(len(val))
	s.observe("put", "ok", start)
	if s.log != nil {
		s.log.Debug(ctx, "session stored",
			logger.String("session", sess.ID),
			logger.Int("bytes", len(val)),
		)
	}
	return nil
}

// Delete implements SessionStore.
func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	if err := s.ready(ctx); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		key := sessionKey(id)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		s.observe("delete", "not_found", start)
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		s.observe("delete", "error", start)
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	s.observe("delete", "ok", start)
	return nil
}

// Count implements SessionStore. Expired entries are not counted.
func (s *BadgerStore) Count(ctx context.Context) int {
	if s.ready(ctx) != nil {
		return 0
	}
	n := 0
	_ = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n
}

// Close implements SessionStore.
func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.compressor.Close()
	return s.db.Close()
}

func (s *BadgerStore) ready(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

func (s *BadgerStore) encode(sess *session.Session) ([]byte, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return s.compressor.Compress(data), nil
}

func (s *BadgerStore) decode(val []byte) (*session.Session, error) {
	data, err := s.compressor.Decompress(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &sess, nil
}

func (s *BadgerStore) observe(op, result string, start time.Time) {
	ms := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordStoreOperation(op, result, ms)
	if result == "error" {
		metrics.RecordErrorByComponent("repository", op)
	}
}
