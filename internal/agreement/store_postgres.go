package agreement

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresStore persists agreements in PostgreSQL. The unique index on
// (policy_name, user_id, context_id) makes Insert idempotent via
// ON CONFLICT DO NOTHING.
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

// NewPostgres constructs a PostgreSQL-backed agreement store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *PostgresStore) ListContextIDs(ctx context.Context, policyName string, userID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT context_id FROM integrity_agreements
		 WHERE policy_name = $1 AND user_id = $2
		 ORDER BY context_id`,
		policyName, userID)
	if err != nil {
		return nil, fmt.Errorf("list agreed contexts %s/%d: %w", policyName, userID, err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan context id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agreed contexts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Insert(ctx context.Context, agreement *Agreement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO integrity_agreements (policy_name, user_id, context_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (policy_name, user_id, context_id) DO NOTHING`,
		agreement.PolicyName, agreement.UserID, agreement.ContextID, s.clock())
	if err != nil {
		return fmt.Errorf("insert agreement %s/%d/%d: %w",
			agreement.PolicyName, agreement.UserID, agreement.ContextID, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, policyName string, userID, contextID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM integrity_agreements
		 WHERE policy_name = $1 AND user_id = $2 AND context_id = $3`,
		policyName, userID, contextID)
	if err != nil {
		return fmt.Errorf("delete agreement %s/%d/%d: %w", policyName, userID, contextID, err)
	}
	return nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM integrity_agreements`); err != nil {
		return fmt.Errorf("delete all agreements: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteByContexts(ctx context.Context, contextIDs []int64) error {
	if len(contextIDs) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM integrity_agreements WHERE context_id = ANY($1)`,
		pq.Array(contextIDs))
	if err != nil {
		return fmt.Errorf("delete agreements by contexts: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteByUsers(ctx context.Context, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM integrity_agreements WHERE user_id = ANY($1)`,
		pq.Array(userIDs))
	if err != nil {
		return fmt.Errorf("delete agreements by users: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteByPolicies(ctx context.Context, policyNames []string) error {
	if len(policyNames) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM integrity_agreements WHERE policy_name = ANY($1)`,
		pq.Array(policyNames))
	if err != nil {
		return fmt.Errorf("delete agreements by policies: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID int64) ([]Agreement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT policy_name, user_id, context_id, created_at
		  FROM integrity_agreements
		 WHERE user_id = $1
		 ORDER BY policy_name, context_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list agreements for user %d: %w", userID, err)
	}
	defer rows.Close()

	var out []Agreement
	for rows.Next() {
		var a Agreement
		if err := rows.Scan(&a.PolicyName, &a.UserID, &a.ContextID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan agreement: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agreements: %w", err)
	}
	return out, nil
}
