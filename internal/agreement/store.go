package agreement

import "context"

// Store is the authoritative agreement store. At most one row exists per
// (policy, user, context); Insert is idempotent on that key.
type Store interface {
	// ListContextIDs returns every context the user agreed to for a policy.
	ListContextIDs(ctx context.Context, policyName string, userID int64) ([]int64, error)

	// Insert records an agreement. Inserting an existing triple is a no-op,
	// never a duplicate row.
	Insert(ctx context.Context, agreement *Agreement) error

	// Delete removes one agreement. Missing rows are a no-op.
	Delete(ctx context.Context, policyName string, userID, contextID int64) error

	// DeleteAll removes every agreement (administrative reset).
	DeleteAll(ctx context.Context) error

	// DeleteByContexts removes agreements in any of the given contexts.
	DeleteByContexts(ctx context.Context, contextIDs []int64) error

	// DeleteByUsers removes all agreements of the given users.
	DeleteByUsers(ctx context.Context, userIDs []int64) error

	// DeleteByPolicies removes all agreements for the given policies.
	DeleteByPolicies(ctx context.Context, policyNames []string) error

	// ListByUser returns all of a user's agreements, for privacy export.
	ListByUser(ctx context.Context, userID int64) ([]Agreement, error)
}
