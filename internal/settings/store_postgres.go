package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"integrity/pkg/platform/sentinel"
)

// PostgresStore persists settings in PostgreSQL.
//
// First-ever creation of a (policy, context) row under concurrent requests is
// resolved by ON CONFLICT as last-write-wins. That relaxation is inherited
// from the request model (serialized form submission, near-zero contention)
// and is deliberate: do not "fix" it with advisory locks.
type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithPostgresClock sets the clock function for testability.
func WithPostgresClock(clock func() time.Time) PostgresOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPostgres constructs a PostgreSQL-backed settings store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *PostgresStore) Get(ctx context.Context, policyName string, contextID int64) (*Setting, error) {
	var setting Setting
	err := s.db.QueryRowContext(ctx, `
		SELECT policy_name, context_id, enabled, modified_by, created_at, updated_at
		  FROM integrity_settings
		 WHERE policy_name = $1 AND context_id = $2`,
		policyName, contextID,
	).Scan(&setting.PolicyName, &setting.ContextID, &setting.Enabled,
		&setting.ModifiedBy, &setting.CreatedAt, &setting.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get setting %s/%d: %w", policyName, contextID, err)
	}
	return &setting, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, setting *Setting) (*Setting, error) {
	now := s.clock()
	stored := Setting{
		PolicyName: setting.PolicyName,
		ContextID:  setting.ContextID,
		Enabled:    setting.Enabled,
		ModifiedBy: setting.ModifiedBy,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO integrity_settings (policy_name, context_id, enabled, modified_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (policy_name, context_id) DO UPDATE SET
			enabled     = EXCLUDED.enabled,
			modified_by = EXCLUDED.modified_by,
			updated_at  = EXCLUDED.updated_at
		RETURNING created_at, updated_at`,
		setting.PolicyName, setting.ContextID, setting.Enabled, setting.ModifiedBy, now,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert setting %s/%d: %w", setting.PolicyName, setting.ContextID, err)
	}
	return &stored, nil
}

func (s *PostgresStore) Delete(ctx context.Context, policyName string, contextID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM integrity_settings WHERE policy_name = $1 AND context_id = $2`,
		policyName, contextID)
	if err != nil {
		return fmt.Errorf("delete setting %s/%d: %w", policyName, contextID, err)
	}
	return nil
}

func (s *PostgresStore) DeleteByContexts(ctx context.Context, contextIDs []int64) error {
	if len(contextIDs) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM integrity_settings WHERE context_id = ANY($1)`,
		pq.Array(contextIDs))
	if err != nil {
		return fmt.Errorf("delete settings by contexts: %w", err)
	}
	return nil
}

func (s *PostgresStore) AnonymizeUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE integrity_settings SET modified_by = 0, updated_at = $2 WHERE modified_by = $1`,
		userID, s.clock())
	if err != nil {
		return fmt.Errorf("anonymize settings for user %d: %w", userID, err)
	}
	return nil
}

func (s *PostgresStore) ListModifiedBy(ctx context.Context, userID int64) ([]Setting, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT policy_name, context_id, enabled, modified_by, created_at, updated_at
		  FROM integrity_settings
		 WHERE modified_by = $1
		 ORDER BY policy_name, context_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list settings modified by %d: %w", userID, err)
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var setting Setting
		if err := rows.Scan(&setting.PolicyName, &setting.ContextID, &setting.Enabled,
			&setting.ModifiedBy, &setting.CreatedAt, &setting.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out = append(out, setting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return out, nil
}
