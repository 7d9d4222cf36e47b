package mfa

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/mfakit/pkg/pg"
)

// PostgresStore persists MFA records in the mfa_secrets table (see the
// migrations directory for the schema).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by a pgx connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("mfa: pgx pool cannot be nil")
	}
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (Record, error) {
	const query = `
		SELECT user_id, secret, backup_codes, enabled, verified_at, created_at, updated_at
		FROM mfa_secrets
		WHERE user_id = $1`

	var record Record
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&record.UserID,
		&record.Secret,
		&record.BackupCodeHashes,
		&record.Enabled,
		&record.VerifiedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return record, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, record Record) error {
	const query = `
		INSERT INTO mfa_secrets (user_id, secret, backup_codes, enabled, verified_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			secret = EXCLUDED.secret,
			backup_codes = EXCLUDED.backup_codes,
			enabled = EXCLUDED.enabled,
			verified_at = EXCLUDED.verified_at,
			updated_at = now()`

	_, err := s.pool.Exec(ctx, query,
		record.UserID,
		record.Secret,
		record.BackupCodeHashes,
		record.Enabled,
		record.VerifiedAt,
	)
	return err
}

func (s *PostgresStore) Enable(ctx context.Context, userID string, verifiedAt time.Time) error {
	const query = `
		UPDATE mfa_secrets
		SET enabled = true, verified_at = $2, updated_at = now()
		WHERE user_id = $1`

	tag, err := s.pool.Exec(ctx, query, userID, verifiedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ConsumeBackupCode removes the hash in a single conditional UPDATE: the
// WHERE clause requires the hash to still be present, so concurrent
// consumers of the same code serialize on the row and exactly one wins.
func (s *PostgresStore) ConsumeBackupCode(ctx context.Context, userID, hash string) (int, error) {
	const query = `
		UPDATE mfa_secrets
		SET backup_codes = array_remove(backup_codes, $2), updated_at = now()
		WHERE user_id = $1 AND $2 = ANY(backup_codes)
		RETURNING cardinality(backup_codes)`

	var remaining int
	err := s.pool.QueryRow(ctx, query, userID, hash).Scan(&remaining)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return 0, ErrBackupCodeConsumed
		}
		return 0, err
	}
	return remaining, nil
}

func (s *PostgresStore) ReplaceBackupCodes(ctx context.Context, userID string, hashes []string) error {
	const query = `
		UPDATE mfa_secrets
		SET backup_codes = $2, updated_at = now()
		WHERE user_id = $1`

	tag, err := s.pool.Exec(ctx, query, userID, hashes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM mfa_secrets WHERE user_id = $1`

	_, err := s.pool.Exec(ctx, query, userID)
	return err
}
