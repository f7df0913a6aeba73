package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// BadgerConfig configures a disk backed length store.
type BadgerConfig struct {
	// Path is the database directory. When empty and InMemory is false, a
	// temporary directory is created and removed again on Close.
	Path string

	// InMemory keeps the database in RAM. Useful for tests.
	InMemory bool

	// Logger receives badger's internal log output. Nil disables it.
	Logger *slog.Logger
}

// BadgerStore is a Store for segment tables too large to hold in a Go map.
type BadgerStore struct {
	db        *badger.DB
	count     int
	removeDir string
}

// badgerLogger adapts slog.Logger to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenBadger opens a badger backed store.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	var (
		opts      badger.Options
		removeDir string
	)
	switch {
	case cfg.InMemory:
		opts = badger.DefaultOptions("").WithInMemory(true)
	case cfg.Path == "":
		dir, err := os.MkdirTemp("", "gfa2rdf-lengths-*")
		if err != nil {
			return nil, fmt.Errorf("create length store directory: %w", err)
		}
		removeDir = dir
		opts = badger.DefaultOptions(dir)
	default:
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create length store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	// The table is scratch state for a single run.
	opts = opts.WithSyncWrites(false).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		if removeDir != "" {
			_ = os.RemoveAll(removeDir)
		}
		return nil, fmt.Errorf("open length store: %w", err)
	}
	return &BadgerStore{db: db, removeDir: removeDir}, nil
}

// Record implements Store.
func (s *BadgerStore) Record(id string, length int64) error {
	if length < 0 {
		return fmt.Errorf("segment %s: negative length %d", id, length)
	}
	key := KeyOf(id).bytes()
	written := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		written = true
		return txn.Set(key, binary.AppendUvarint(nil, uint64(length)))
	})
	if err != nil {
		return fmt.Errorf("record segment %s: %w", id, err)
	}
	if written {
		s.count++
	}
	return nil
}

// Lookup implements Store.
func (s *BadgerStore) Lookup(id string) (int64, error) {
	key := KeyOf(id)
	var length int64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key.bytes())
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			v, n := binary.Uvarint(val)
			if n <= 0 {
				return fmt.Errorf("corrupt length for segment %s", key)
			}
			length = int64(v)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSegment, key)
	}
	if err != nil {
		return 0, fmt.Errorf("lookup segment %s: %w", key, err)
	}
	return length, nil
}

// Len implements Store.
func (s *BadgerStore) Len() int { return s.count }

// Close closes the database and removes its directory if it was temporary.
func (s *BadgerStore) Close() error {
	err := s.db.Close()
	if s.removeDir != "" {
		if rerr := os.RemoveAll(s.removeDir); rerr != nil && err == nil {
			err = rerr
		}
	}
	return err
}
