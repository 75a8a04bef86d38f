package privacy

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"integrity/internal/agreement"
	"integrity/internal/platform/cache"
	"integrity/internal/settings"
	"integrity/pkg/platform/audit"
	"integrity/pkg/platform/audit/publisher"
	auditmem "integrity/pkg/platform/audit/store/memory"
)

type PrivacySuite struct {
	suite.Suite

	ctx        context.Context
	agreements *agreement.InMemoryStore
	settings   *settings.InMemoryStore
	cache      *cache.Memory
	auditStore *auditmem.InMemoryStore
	service    *Service
}

func TestPrivacySuite(t *testing.T) {
	suite.Run(t, new(PrivacySuite))
}

func (s *PrivacySuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.ctx = context.Background()
	s.agreements = agreement.NewInMemoryStore()
	s.settings = settings.NewInMemoryStore()
	s.cache = cache.NewMemory()
	s.auditStore = auditmem.NewInMemoryStore()
	s.service = New(s.agreements, s.settings, s.cache, publisher.New(s.auditStore, log), log)
}

func (s *PrivacySuite) seed() {
	s.Require().NoError(s.agreements.Insert(s.ctx, &agreement.Agreement{PolicyName: "forum", UserID: 7, ContextID: 10}))
	s.Require().NoError(s.agreements.Insert(s.ctx, &agreement.Agreement{PolicyName: "forum", UserID: 7, ContextID: 20}))
	s.Require().NoError(s.agreements.Insert(s.ctx, &agreement.Agreement{PolicyName: "forum", UserID: 8, ContextID: 10}))
	_, err := s.settings.Upsert(s.ctx, &settings.Setting{PolicyName: "forum", ContextID: 10, Enabled: true, ModifiedBy: 7})
	s.Require().NoError(err)
	_, err = s.settings.Upsert(s.ctx, &settings.Setting{PolicyName: "forum", ContextID: 20, Enabled: true, ModifiedBy: 9})
	s.Require().NoError(err)
}

func (s *PrivacySuite) TestExport() {
	s.seed()

	export, err := s.service.Export(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal(int64(7), export.UserID)
	s.Len(export.Agreements, 2)
	s.Require().Len(export.SettingsModified, 1)
	s.Equal(int64(10), export.SettingsModified[0].ContextID)
}

func (s *PrivacySuite) TestExportEmptyUser() {
	export, err := s.service.Export(s.ctx, 999)
	s.Require().NoError(err)
	s.Empty(export.Agreements)
	s.Empty(export.SettingsModified)
}

func (s *PrivacySuite) TestEraseRemovesAgreementsAndAnonymizesSettings() {
	s.seed()
	s.Require().NoError(s.cache.Set(s.ctx, "agreements:forum:7", []byte(`[10,20]`)))

	s.Require().NoError(s.service.Erase(s.ctx, 7))

	remaining, err := s.agreements.ListByUser(s.ctx, 7)
	s.Require().NoError(err)
	s.Empty(remaining)

	// Other users untouched.
	others, err := s.agreements.ListByUser(s.ctx, 8)
	s.Require().NoError(err)
	s.Len(others, 1)

	// Setting rows survive but no longer name the user.
	modified, err := s.settings.ListModifiedBy(s.ctx, 7)
	s.Require().NoError(err)
	s.Empty(modified)
	setting, err := s.settings.Get(s.ctx, "forum", 10)
	s.Require().NoError(err)
	s.Zero(setting.ModifiedBy)
	s.True(setting.Enabled)

	s.Zero(s.cache.Len(), "erasure purges the cache")

	events, err := s.auditStore.ListByUser(s.ctx, 7)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionUserAnonymized, events[0].Action)
}
