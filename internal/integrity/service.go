// Package integrity is the policy resolution facade: the one entry point the
// host application uses to decide whether a consent prompt must be shown and
// to record agreements. It composes the policy registry with the cached
// settings and agreement stores; it holds no state of its own and evaluates
// every request fresh.
package integrity

import (
	"context"
	"log/slog"

	"integrity/internal/agreement"
	"integrity/internal/platform/metrics"
	"integrity/internal/platform/middleware"
	"integrity/internal/policy"
	"integrity/internal/settings"
	pkgerrors "integrity/pkg/domain-errors"
	"integrity/pkg/platform/audit"
	"integrity/pkg/platform/audit/publisher"
)

// Resolution is the outcome of evaluating one (policy, context, user) triple.
type Resolution string

const (
	// ResolutionNotApplicable: the page does not match the policy's display
	// URLs, or there is no current user. No prompt.
	ResolutionNotApplicable Resolution = "not_applicable"
	// ResolutionDisabled: the policy is not enabled in the context. No prompt.
	ResolutionDisabled Resolution = "disabled"
	// ResolutionPending: enabled and not yet agreed. The prompt is shown.
	ResolutionPending Resolution = "pending"
	// ResolutionSatisfied: enabled and already agreed. No prompt, ever,
	// unless the agreement is administratively revoked.
	ResolutionSatisfied Resolution = "satisfied"
)

// Authorizer is the host's permission system. Only the single capability this
// service needs is modelled.
type Authorizer interface {
	// CanAgreeOnBehalf reports whether the actor may agree statements for
	// other users.
	CanAgreeOnBehalf(ctx context.Context, actorID int64) (bool, error)
}

// Service wires the registry, stores, audit and metrics together.
type Service struct {
	registry   *policy.Registry
	settings   *settings.CachedStore
	agreements *agreement.CachedStore
	authorizer Authorizer
	audit      *publisher.Publisher
	metrics    *metrics.Metrics
	log        *slog.Logger
}

// New builds the facade service.
func New(
	registry *policy.Registry,
	settingsStore *settings.CachedStore,
	agreementStore *agreement.CachedStore,
	authorizer Authorizer,
	auditPub *publisher.Publisher,
	m *metrics.Metrics,
	log *slog.Logger,
) *Service {
	return &Service{
		registry:   registry,
		settings:   settingsStore,
		agreements: agreementStore,
		authorizer: authorizer,
		audit:      auditPub,
		metrics:    m,
		log:        log,
	}
}

// Resolve evaluates the prompt state machine for one page view.
func (s *Service) Resolve(ctx context.Context, policyName, pageURL string, contextID, userID int64) (Resolution, error) {
	p, err := s.registry.Get(policyName)
	if err != nil {
		return "", err
	}

	resolution, err := s.resolve(ctx, p, pageURL, contextID, userID)
	if err != nil {
		return "", err
	}
	s.metrics.PromptEvaluations.WithLabelValues(string(resolution)).Inc()
	recordResolution(ctx, policyName, string(resolution))
	return resolution, nil
}

func (s *Service) resolve(ctx context.Context, p policy.Policy, pageURL string, contextID, userID int64) (Resolution, error) {
	if userID == 0 || !p.Matches(pageURL) {
		return ResolutionNotApplicable, nil
	}
	enabled, err := s.settings.IsEnabled(ctx, p.Name, contextID)
	if err != nil {
		return "", err
	}
	if !enabled {
		return ResolutionDisabled, nil
	}
	agreed, err := s.agreements.HasAgreed(ctx, p.Name, userID, contextID)
	if err != nil {
		return "", err
	}
	if agreed {
		return ResolutionSatisfied, nil
	}
	return ResolutionPending, nil
}

// ShouldDisplay reports whether the consent prompt must be shown.
func (s *Service) ShouldDisplay(ctx context.Context, policyName, pageURL string, contextID, userID int64) (bool, error) {
	resolution, err := s.Resolve(ctx, policyName, pageURL, contextID, userID)
	if err != nil {
		return false, err
	}
	return resolution == ResolutionPending, nil
}

// Notice returns the operator-configured statement text for a policy. Pure
// configuration read; no per-context or per-user state involved.
func (s *Service) Notice(policyName string) (string, error) {
	p, err := s.registry.Get(policyName)
	if err != nil {
		return "", err
	}
	return p.Notice, nil
}

// AgreeStatement records the acting user's (or, with permission, another
// user's) agreement. userID zero means the actor agrees for themselves.
// Idempotent.
func (s *Service) AgreeStatement(ctx context.Context, policyName string, contextID, userID int64, actor middleware.Principal) error {
	if _, err := s.registry.Get(policyName); err != nil {
		return err
	}

	if userID == 0 {
		userID = actor.UserID
	} else if userID != actor.UserID {
		allowed, err := s.authorizer.CanAgreeOnBehalf(ctx, actor.UserID)
		if err != nil {
			return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "authorization check failed")
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodePermissionDenied,
				"agreeing statements on behalf of other users requires permission")
		}
	}

	if err := s.agreements.Agree(ctx, policyName, userID, contextID); err != nil {
		return err
	}
	s.metrics.AgreementsTotal.Inc()
	s.audit.Emit(ctx, audit.Event{
		Action:     audit.ActionAgreementGranted,
		PolicyName: policyName,
		UserID:     userID,
		ContextID:  contextID,
		ActorID:    onBehalfActor(userID, actor),
		RequestID:  middleware.GetRequestID(ctx),
	})
	return nil
}

// RevokeStatement removes one agreement. Administrative: the user will be
// prompted again on next matching page view. Idempotent.
func (s *Service) RevokeStatement(ctx context.Context, policyName string, contextID, userID int64, actor middleware.Principal) error {
	if _, err := s.registry.Get(policyName); err != nil {
		return err
	}
	if err := s.agreements.Revoke(ctx, policyName, userID, contextID); err != nil {
		return err
	}
	s.metrics.RevocationsTotal.Inc()
	s.audit.Emit(ctx, audit.Event{
		Action:     audit.ActionAgreementRevoked,
		PolicyName: policyName,
		UserID:     userID,
		ContextID:  contextID,
		ActorID:    onBehalfActor(userID, actor),
		RequestID:  middleware.GetRequestID(ctx),
	})
	return nil
}

// SetEnabled toggles a policy for a context, creating the setting row on
// first use. Called from the host's activity form submission.
func (s *Service) SetEnabled(ctx context.Context, policyName string, contextID int64, enabled bool, actor middleware.Principal) (*settings.Setting, error) {
	if _, err := s.registry.Get(policyName); err != nil {
		return nil, err
	}
	stored, err := s.settings.SetEnabled(ctx, policyName, contextID, enabled, actor.UserID)
	if err != nil {
		return nil, err
	}
	s.audit.Emit(ctx, audit.Event{
		Action:     audit.ActionSettingChanged,
		PolicyName: policyName,
		ContextID:  contextID,
		ActorID:    actor.UserID,
		RequestID:  middleware.GetRequestID(ctx),
	})
	return stored, nil
}

// DeleteSetting removes a policy's setting for a context, typically when the
// owning activity is permanently deleted.
func (s *Service) DeleteSetting(ctx context.Context, policyName string, contextID int64, actor middleware.Principal) error {
	if _, err := s.registry.Get(policyName); err != nil {
		return err
	}
	if err := s.settings.Delete(ctx, policyName, contextID); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.Event{
		Action:     audit.ActionSettingDeleted,
		PolicyName: policyName,
		ContextID:  contextID,
		ActorID:    actor.UserID,
		RequestID:  middleware.GetRequestID(ctx),
	})
	return nil
}

// DefaultEnabled returns the form default for a policy in contexts without a
// setting row yet.
func (s *Service) DefaultEnabled(policyName string) (bool, error) {
	p, err := s.registry.Get(policyName)
	if err != nil {
		return false, err
	}
	return p.DefaultEnabled, nil
}

func onBehalfActor(userID int64, actor middleware.Principal) int64 {
	if actor.UserID != userID {
		return actor.UserID
	}
	return 0
}
