package mfa_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrymomot/mfakit/pkg/mfa"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRecord(t *testing.T, store *mfa.MemoryStore, userID string, hashes []string) {
	t.Helper()
	require.NoError(t, store.Upsert(context.Background(), mfa.Record{
		UserID:           userID,
		Secret:           "v2$deadbeef",
		BackupCodeHashes: hashes,
		Enabled:          true,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}))
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	t.Parallel()
	store := mfa.NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, mfa.ErrNotFound)
}

func TestMemoryStoreEnable(t *testing.T) {
	t.Parallel()
	store := mfa.NewMemoryStore()
	ctx := context.Background()

	err := store.Enable(ctx, "missing", time.Now())
	assert.ErrorIs(t, err, mfa.ErrNotFound)

	seedRecord(t, store, "user-1", nil)
	verifiedAt := time.Now()
	require.NoError(t, store.Enable(ctx, "user-1", verifiedAt))

	record, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, record.Enabled)
	require.NotNil(t, record.VerifiedAt)
	assert.WithinDuration(t, verifiedAt, *record.VerifiedAt, time.Second)
}

func TestMemoryStoreConsumeBackupCode(t *testing.T) {
	t.Parallel()
	store := mfa.NewMemoryStore()
	ctx := context.Background()

	seedRecord(t, store, "user-1", []string{"h1", "h2", "h3"})

	remaining, err := store.ConsumeBackupCode(ctx, "user-1", "h2")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	// Order of the untouched hashes is preserved.
	record, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h3"}, record.BackupCodeHashes)

	// Consuming the same hash again reports the race, not success.
	_, err = store.ConsumeBackupCode(ctx, "user-1", "h2")
	assert.ErrorIs(t, err, mfa.ErrBackupCodeConsumed)

	_, err = store.ConsumeBackupCode(ctx, "missing", "h1")
	assert.ErrorIs(t, err, mfa.ErrNotFound)
}

func TestMemoryStoreConsumeBackupCodeConcurrent(t *testing.T) {
	t.Parallel()
	store := mfa.NewMemoryStore()
	ctx := context.Background()

	seedRecord(t, store, "user-1", []string{"h1"})

	const attempts = 16
	var wg sync.WaitGroup
	successes := make(chan int, attempts)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if remaining, err := store.ConsumeBackupCode(ctx, "user-1", "h1"); err == nil {
				successes <- remaining
			}
		}()
	}
	wg.Wait()
	close(successes)

	var wins []int
	for r := range successes {
		wins = append(wins, r)
	}
	require.Len(t, wins, 1, "exactly one concurrent consumer may win")
	assert.Equal(t, 0, wins[0])
}

func TestMemoryStoreReplaceBackupCodes(t *testing.T) {
	t.Parallel()
	store := mfa.NewMemoryStore()
	ctx := context.Background()

	err := store.ReplaceBackupCodes(ctx, "missing", []string{"h1"})
	assert.ErrorIs(t, err, mfa.ErrNotFound)

	seedRecord(t, store, "user-1", []string{"old1", "old2"})
	require.NoError(t, store.ReplaceBackupCodes(ctx, "user-1", []string{"new1", "new2", "new3"}))

	record, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"new1", "new2", "new3"}, record.BackupCodeHashes)
}

func TestMemoryStoreDelete(t *testing.T) {
	t.Parallel()
	store := mfa.NewMemoryStore()
	ctx := context.Background()

	seedRecord(t, store, "user-1", nil)
	require.NoError(t, store.Delete(ctx, "user-1"))
	_, err := store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, mfa.ErrNotFound)

	// Deleting a missing record is not an error.
	assert.NoError(t, store.Delete(ctx, "user-1"))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	t.Parallel()
	store := mfa.NewMemoryStore()
	ctx := context.Background()

	seedRecord(t, store, "user-1", []string{"h1", "h2"})

	record, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	record.BackupCodeHashes[0] = "mutated"

	fresh, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2"}, fresh.BackupCodeHashes)
}
