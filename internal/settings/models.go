// Package settings persists whether a policy is enabled for a context. One
// row per (policy, context) natural key; reads go through a warm cache.
package settings

import "time"

// Setting records the enabled flag of one policy in one context.
type Setting struct {
	PolicyName string    `json:"policy_name"`
	ContextID  int64     `json:"context_id"`
	Enabled    bool      `json:"enabled"`
	// ModifiedBy is the user who last toggled the flag. Zero means the
	// modifier was anonymized by a privacy erasure; the row itself survives.
	ModifiedBy int64     `json:"modified_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
