// Package audit captures consent-relevant actions for compliance review.
// Events are emitted from domain logic and fanned out to sinks; keep the
// model transport-agnostic.
package audit

import (
	"context"
	"time"
)

// Action names one auditable operation.
type Action string

const (
	ActionAgreementGranted Action = "agreement_granted"
	ActionAgreementRevoked Action = "agreement_revoked"
	ActionAgreementsReset  Action = "agreements_reset"
	ActionSettingChanged   Action = "setting_changed"
	ActionSettingDeleted   Action = "setting_deleted"
	ActionUserAnonymized   Action = "user_anonymized"
)

// Event is one audit record. UserID is the subject of the action; ActorID is
// who performed it when acting on another user's behalf (zero when acting for
// themselves).
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     Action    `json:"action"`
	PolicyName string    `json:"policy_name,omitempty"`
	UserID     int64     `json:"user_id,omitempty"`
	ContextID  int64     `json:"context_id,omitempty"`
	ActorID    int64     `json:"actor_id,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

// Sink receives emitted events. Stores and brokers implement it.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Store is a Sink that also supports reading events back.
type Store interface {
	Sink
	ListByUser(ctx context.Context, userID int64) ([]Event, error)
}
