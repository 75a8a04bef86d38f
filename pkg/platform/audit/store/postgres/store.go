package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"integrity/pkg/platform/audit"
)

// Store appends audit events to the integrity_audit table.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL-backed audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO integrity_audit
			(occurred_at, action, policy_name, user_id, context_id, actor_id, request_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.Timestamp, string(event.Action), event.PolicyName,
		event.UserID, event.ContextID, event.ActorID, event.RequestID, event.Detail)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT occurred_at, action, policy_name, user_id, context_id, actor_id, request_id, detail
		  FROM integrity_audit
		 WHERE user_id = $1
		 ORDER BY occurred_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list audit events for user %d: %w", userID, err)
	}
	defer rows.Close()

	var out []audit.Event
	for rows.Next() {
		var e audit.Event
		var action string
		if err := rows.Scan(&e.Timestamp, &action, &e.PolicyName,
			&e.UserID, &e.ContextID, &e.ActorID, &e.RequestID, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = audit.Action(action)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return out, nil
}
