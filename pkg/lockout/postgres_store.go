package lockout

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/mfakit/pkg/pg"
)

// PostgresStore persists lockout records in the lockouts table (see the
// migrations directory for the schema).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by a pgx connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("lockout: pgx pool cannot be nil")
	}
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, email string) (Record, error) {
	const query = `
		SELECT email, failed_attempts, unlock_at
		FROM lockouts
		WHERE email = $1`

	var record Record
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&record.Email,
		&record.FailedAttempts,
		&record.UnlockAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return record, nil
}

// Increment upserts the row in a single statement so concurrent failed
// logins cannot lose counts to a read-modify-write race. An expired lockout
// resets the count to 1 instead of continuing past the threshold.
func (s *PostgresStore) Increment(ctx context.Context, email string) (int, error) {
	const query = `
		INSERT INTO lockouts (email, failed_attempts, unlock_at)
		VALUES ($1, 1, NULL)
		ON CONFLICT (email) DO UPDATE SET
			failed_attempts = CASE
				WHEN lockouts.unlock_at IS NOT NULL AND lockouts.unlock_at <= now() THEN 1
				ELSE lockouts.failed_attempts + 1
			END,
			unlock_at = CASE
				WHEN lockouts.unlock_at IS NOT NULL AND lockouts.unlock_at <= now() THEN NULL
				ELSE lockouts.unlock_at
			END
		RETURNING failed_attempts`

	var count int
	if err := s.pool.QueryRow(ctx, query, email).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *PostgresStore) SetUnlockAt(ctx context.Context, email string, unlockAt time.Time) error {
	const query = `
		UPDATE lockouts
		SET unlock_at = $2
		WHERE email = $1`

	tag, err := s.pool.Exec(ctx, query, email, unlockAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, email string) error {
	const query = `DELETE FROM lockouts WHERE email = $1`

	_, err := s.pool.Exec(ctx, query, email)
	return err
}
