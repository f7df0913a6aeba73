package storage

import "fmt"

// Store maps segment ids to sequence lengths for the duration of one run.
type Store interface {
	// Record stores length for id. A second write for the same id is
	// ignored; the first length wins.
	Record(id string, length int64) error
	// Lookup returns the recorded length, or an error wrapping
	// ErrUnknownSegment.
	Lookup(id string) (int64, error)
	// Len returns the number of recorded segments.
	Len() int
	Close() error
}

// MemoryStore is a map backed Store. It is not safe for concurrent use.
type MemoryStore struct {
	lengths map[Key]int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lengths: make(map[Key]int64)}
}

// Record implements Store.
func (s *MemoryStore) Record(id string, length int64) error {
	if s.lengths == nil {
		return ErrClosed
	}
	if length < 0 {
		return fmt.Errorf("segment %s: negative length %d", id, length)
	}
	key := KeyOf(id)
	if _, exists := s.lengths[key]; !exists {
		s.lengths[key] = length
	}
	return nil
}

// Lookup implements Store.
func (s *MemoryStore) Lookup(id string) (int64, error) {
	if s.lengths == nil {
		return 0, ErrClosed
	}
	key := KeyOf(id)
	n, ok := s.lengths[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSegment, key)
	}
	return n, nil
}

// Len implements Store.
func (s *MemoryStore) Len() int { return len(s.lengths) }

// Close releases the table.
func (s *MemoryStore) Close() error {
	s.lengths = nil
	return nil
}
