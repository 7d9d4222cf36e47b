package mfa

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-memory Store, used by tests and local
// development. The conditional consume semantics match the Postgres store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[userID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return cloneRecord(record), nil
}

func (s *MemoryStore) Upsert(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.UserID] = cloneRecord(record)
	return nil
}

func (s *MemoryStore) Enable(_ context.Context, userID string, verifiedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[userID]
	if !ok {
		return ErrNotFound
	}
	record.Enabled = true
	record.VerifiedAt = &verifiedAt
	record.UpdatedAt = time.Now()
	s.records[userID] = record
	return nil
}

func (s *MemoryStore) ConsumeBackupCode(_ context.Context, userID, hash string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[userID]
	if !ok {
		return 0, ErrNotFound
	}

	idx := -1
	for i, h := range record.BackupCodeHashes {
		if h == hash {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, ErrBackupCodeConsumed
	}

	hashes := make([]string, 0, len(record.BackupCodeHashes)-1)
	hashes = append(hashes, record.BackupCodeHashes[:idx]...)
	hashes = append(hashes, record.BackupCodeHashes[idx+1:]...)
	record.BackupCodeHashes = hashes
	record.UpdatedAt = time.Now()
	s.records[userID] = record

	return len(hashes), nil
}

func (s *MemoryStore) ReplaceBackupCodes(_ context.Context, userID string, hashes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[userID]
	if !ok {
		return ErrNotFound
	}
	record.BackupCodeHashes = append([]string(nil), hashes...)
	record.UpdatedAt = time.Now()
	s.records[userID] = record
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, userID)
	return nil
}

func cloneRecord(r Record) Record {
	r.BackupCodeHashes = append([]string(nil), r.BackupCodeHashes...)
	if r.VerifiedAt != nil {
		verifiedAt := *r.VerifiedAt
		r.VerifiedAt = &verifiedAt
	}
	return r
}
