// Package agreement persists which users agreed to which statements, one row
// per (policy, user, context). Agreement is set membership, not a boolean:
// the same policy applies independently across many contexts and a user's
// agreement is scoped to the exact context it was given in.
package agreement

import "time"

// Agreement records one user's acceptance of one policy in one context.
// Rows are created and deleted, never updated.
type Agreement struct {
	PolicyName string    `json:"policy_name"`
	UserID     int64     `json:"user_id"`
	ContextID  int64     `json:"context_id"`
	CreatedAt  time.Time `json:"created_at"`
}
