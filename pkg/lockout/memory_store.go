package lockout

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-memory Store for tests and local
// development. Increment semantics match the Postgres store, including the
// reset of counts left behind by an expired lockout.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Get(_ context.Context, email string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[email]
	if !ok {
		return Record{}, ErrNotFound
	}
	if record.UnlockAt != nil {
		unlockAt := *record.UnlockAt
		record.UnlockAt = &unlockAt
	}
	return record, nil
}

func (s *MemoryStore) Increment(_ context.Context, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[email]
	if !ok {
		record = Record{Email: email}
	}

	// A served (expired) lockout starts a fresh count.
	if record.UnlockAt != nil && !time.Now().Before(*record.UnlockAt) {
		record.FailedAttempts = 0
		record.UnlockAt = nil
	}

	record.FailedAttempts++
	s.records[email] = record
	return record.FailedAttempts, nil
}

func (s *MemoryStore) SetUnlockAt(_ context.Context, email string, unlockAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[email]
	if !ok {
		return ErrNotFound
	}
	record.UnlockAt = &unlockAt
	s.records[email] = record
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, email)
	return nil
}
