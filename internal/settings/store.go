package settings

import "context"

// Store is the authoritative settings store. Implementations must keep at
// most one row per (policy, context); concurrent creation of the same pair is
// resolved last-write-wins rather than rejected (see store_postgres.go).
type Store interface {
	// Get returns the setting for the natural key, or sentinel.ErrNotFound.
	Get(ctx context.Context, policyName string, contextID int64) (*Setting, error)

	// Upsert inserts the setting or updates enabled/modified_by in place.
	// Returns the stored row with authoritative timestamps.
	Upsert(ctx context.Context, setting *Setting) (*Setting, error)

	// Delete removes the row for the natural key. Missing rows are a no-op.
	Delete(ctx context.Context, policyName string, contextID int64) error

	// DeleteByContexts removes every setting in the given contexts, for any
	// policy. Used when the owning contexts are permanently deleted.
	DeleteByContexts(ctx context.Context, contextIDs []int64) error

	// AnonymizeUser zeroes modified_by on every row the user last touched.
	// Rows are never deleted by privacy erasure.
	AnonymizeUser(ctx context.Context, userID int64) error

	// ListModifiedBy returns the rows last modified by the user, for privacy
	// export.
	ListModifiedBy(ctx context.Context, userID int64) ([]Setting, error)
}
