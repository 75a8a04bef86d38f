// Package reset implements the operator bulk-deletion tooling: wiping
// agreements for a whole deployment, a set of courses, contexts, users or
// policies. Every run ends with a full cache purge because per-key
// invalidation cannot enumerate the keys a bulk delete touches.
package reset

import (
	"context"
	"log/slog"
	"strings"

	"integrity/internal/agreement"
	"integrity/internal/contextdir"
	"integrity/internal/platform/cache"
	"integrity/internal/settings"
	dErrors "integrity/pkg/domain-errors"
	"integrity/pkg/platform/audit"
	"integrity/pkg/platform/audit/publisher"
	pstrings "integrity/pkg/platform/strings"
)

// Selector names what to wipe. Exactly one field may be set.
type Selector struct {
	All        bool
	CourseIDs  []int64
	ContextIDs []int64
	UserIDs    []int64
	Policies   []string
}

// normalized strips duplicates, blanks and non-positive ids from the
// selector lists.
func (sel Selector) normalized() Selector {
	return Selector{
		All:        sel.All,
		CourseIDs:  pstrings.DedupeInt64(sel.CourseIDs),
		ContextIDs: pstrings.DedupeInt64(sel.ContextIDs),
		UserIDs:    pstrings.DedupeInt64(sel.UserIDs),
		Policies:   pstrings.DedupeAndTrim(sel.Policies),
	}
}

// Validate rejects empty and ambiguous selectors.
func (sel Selector) Validate() error {
	set := 0
	if sel.All {
		set++
	}
	if len(sel.CourseIDs) > 0 {
		set++
	}
	if len(sel.ContextIDs) > 0 {
		set++
	}
	if len(sel.UserIDs) > 0 {
		set++
	}
	if len(sel.Policies) > 0 {
		set++
	}
	if set == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "a selector is required: all, course ids, context ids, user ids or policies")
	}
	if set > 1 {
		return dErrors.New(dErrors.CodeBadRequest, "selectors are mutually exclusive, provide exactly one")
	}
	return nil
}

func (sel Selector) describe() string {
	switch {
	case sel.All:
		return "all"
	case len(sel.CourseIDs) > 0:
		return "courses"
	case len(sel.ContextIDs) > 0:
		return "contexts"
	case len(sel.UserIDs) > 0:
		return "users"
	default:
		return "policies:" + strings.Join(sel.Policies, ",")
	}
}

// Service executes bulk deletions against the authoritative stores.
type Service struct {
	agreements agreement.Store
	settings   settings.Store
	contexts   contextdir.Directory
	cache      cache.Cache
	audit      *publisher.Publisher
	log        *slog.Logger
}

// New builds the reset service.
func New(
	agreements agreement.Store,
	s settings.Store,
	contexts contextdir.Directory,
	c cache.Cache,
	auditPub *publisher.Publisher,
	log *slog.Logger,
) *Service {
	return &Service{
		agreements: agreements,
		settings:   s,
		contexts:   contexts,
		cache:      c,
		audit:      auditPub,
		log:        log,
	}
}

// Reset wipes agreements matching the selector. Settings survive: disabling
// or removing a policy from a context is a separate operation.
func (s *Service) Reset(ctx context.Context, sel Selector, actorID int64) error {
	sel = sel.normalized()
	if err := sel.Validate(); err != nil {
		return err
	}

	var err error
	switch {
	case sel.All:
		err = s.agreements.DeleteAll(ctx)
	case len(sel.CourseIDs) > 0:
		var contextIDs []int64
		contextIDs, err = s.contexts.ContextIDsForCourses(ctx, sel.CourseIDs)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeStorage, "resolve course contexts")
		}
		if len(contextIDs) == 0 {
			s.log.InfoContext(ctx, "no contexts found for courses, nothing to reset",
				"course_ids", sel.CourseIDs)
			return nil
		}
		err = s.agreements.DeleteByContexts(ctx, contextIDs)
	case len(sel.ContextIDs) > 0:
		err = s.agreements.DeleteByContexts(ctx, sel.ContextIDs)
	case len(sel.UserIDs) > 0:
		err = s.agreements.DeleteByUsers(ctx, sel.UserIDs)
	default:
		err = s.agreements.DeleteByPolicies(ctx, sel.Policies)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "reset agreements")
	}

	if err := s.cache.Purge(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "purge cache after reset")
	}

	s.audit.Emit(ctx, audit.Event{
		Action:  audit.ActionAgreementsReset,
		ActorID: actorID,
		Detail:  sel.describe(),
	})
	s.log.InfoContext(ctx, "agreements reset", "selector", sel.describe(), "actor_id", actorID)
	return nil
}

// RemoveContexts deletes both settings and agreements for contexts that no
// longer exist, typically after the host permanently deletes an activity.
func (s *Service) RemoveContexts(ctx context.Context, contextIDs []int64, actorID int64) error {
	if len(contextIDs) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "context ids are required")
	}
	if err := s.settings.DeleteByContexts(ctx, contextIDs); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "delete settings for contexts")
	}
	if err := s.agreements.DeleteByContexts(ctx, contextIDs); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "delete agreements for contexts")
	}
	if err := s.cache.Purge(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "purge cache after context removal")
	}

	s.audit.Emit(ctx, audit.Event{
		Action:  audit.ActionAgreementsReset,
		ActorID: actorID,
		Detail:  "contexts-removed",
	})
	return nil
}
