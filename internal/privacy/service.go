// Package privacy implements the data-subject operations: exporting what the
// system stores about a user and erasing it. Erasure keeps setting rows for
// course history but detaches them from the user.
package privacy

import (
	"context"
	"log/slog"

	"integrity/internal/agreement"
	"integrity/internal/platform/cache"
	"integrity/internal/settings"
	dErrors "integrity/pkg/domain-errors"
	"integrity/pkg/platform/audit"
	"integrity/pkg/platform/audit/publisher"
)

// Export is everything stored about one user.
type Export struct {
	UserID           int64                 `json:"user_id"`
	Agreements       []agreement.Agreement `json:"agreements"`
	SettingsModified []settings.Setting    `json:"settings_modified"`
}

// Service performs privacy exports and erasure.
type Service struct {
	agreements agreement.Store
	settings   settings.Store
	cache      cache.Cache
	audit      *publisher.Publisher
	log        *slog.Logger
}

// New builds the privacy service against the authoritative stores. It
// bypasses the read caches on purpose: exports must reflect the store, and
// erasure ends with a full cache purge anyway.
func New(agreements agreement.Store, s settings.Store, c cache.Cache, auditPub *publisher.Publisher, log *slog.Logger) *Service {
	return &Service{
		agreements: agreements,
		settings:   s,
		cache:      c,
		audit:      auditPub,
		log:        log,
	}
}

// Export collects the user's agreements and the settings rows they last
// modified.
func (s *Service) Export(ctx context.Context, userID int64) (*Export, error) {
	agreements, err := s.agreements.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "export agreements")
	}
	modified, err := s.settings.ListModifiedBy(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "export settings")
	}
	return &Export{
		UserID:           userID,
		Agreements:       agreements,
		SettingsModified: modified,
	}, nil
}

// Erase deletes the user's agreements and anonymizes their trace on setting
// rows. Setting rows themselves survive so contexts keep their configuration.
// Ends with a full cache purge since per-key invalidation cannot cover every
// key the user may appear under.
func (s *Service) Erase(ctx context.Context, userID int64) error {
	if err := s.agreements.DeleteByUsers(ctx, []int64{userID}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "erase agreements")
	}
	if err := s.settings.AnonymizeUser(ctx, userID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "anonymize settings")
	}
	if err := s.cache.Purge(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "purge cache after erasure")
	}

	s.audit.Emit(ctx, audit.Event{
		Action: audit.ActionUserAnonymized,
		UserID: userID,
	})
	s.log.InfoContext(ctx, "user data erased", "user_id", userID)
	return nil
}
