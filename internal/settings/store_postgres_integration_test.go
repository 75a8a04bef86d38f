//go:build integration

package settings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"integrity/internal/settings"
	"integrity/pkg/platform/sentinel"
	"integrity/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *settings.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = settings.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "integrity_settings"))
}

func (s *PostgresStoreSuite) TestGetMissingReturnsNotFound() {
	_, err := s.store.Get(context.Background(), "forum", 10)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpsertInsertsThenUpdatesInPlace() {
	ctx := context.Background()

	first, err := s.store.Upsert(ctx, &settings.Setting{
		PolicyName: "forum", ContextID: 10, Enabled: true, ModifiedBy: 42,
	})
	s.Require().NoError(err)
	s.False(first.CreatedAt.IsZero())
	s.Equal(first.CreatedAt, first.UpdatedAt)

	second, err := s.store.Upsert(ctx, &settings.Setting{
		PolicyName: "forum", ContextID: 10, Enabled: false, ModifiedBy: 43,
	})
	s.Require().NoError(err)
	s.Equal(first.CreatedAt, second.CreatedAt, "conflict update keeps the original row")
	s.True(second.UpdatedAt.After(first.UpdatedAt) || second.UpdatedAt.Equal(first.UpdatedAt))

	got, err := s.store.Get(ctx, "forum", 10)
	s.Require().NoError(err)
	s.False(got.Enabled)
	s.Equal(int64(43), got.ModifiedBy)
}

func (s *PostgresStoreSuite) TestConcurrentUpsertsConvergeToOneRow() {
	ctx := context.Background()
	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func(i int) {
			_, err := s.store.Upsert(ctx, &settings.Setting{
				PolicyName: "forum", ContextID: 10, Enabled: i%2 == 0, ModifiedBy: int64(i),
			})
			done <- err
		}(i)
	}
	for i := 0; i < 20; i++ {
		s.Require().NoError(<-done)
	}

	var count int
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM integrity_settings").Scan(&count))
	s.Equal(1, count)
}

func (s *PostgresStoreSuite) TestDeleteAndBulkDelete() {
	ctx := context.Background()
	for _, ctxID := range []int64{10, 20, 30} {
		_, err := s.store.Upsert(ctx, &settings.Setting{
			PolicyName: "forum", ContextID: ctxID, Enabled: true, ModifiedBy: 1,
		})
		s.Require().NoError(err)
	}

	s.Require().NoError(s.store.Delete(ctx, "forum", 10))
	_, err := s.store.Get(ctx, "forum", 10)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	// Deleting a missing row is a no-op.
	s.Require().NoError(s.store.Delete(ctx, "forum", 10))

	s.Require().NoError(s.store.DeleteByContexts(ctx, []int64{20, 30}))
	_, err = s.store.Get(ctx, "forum", 20)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestAnonymizeUser() {
	ctx := context.Background()
	_, err := s.store.Upsert(ctx, &settings.Setting{
		PolicyName: "forum", ContextID: 10, Enabled: true, ModifiedBy: 42,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.store.AnonymizeUser(ctx, 42))

	got, err := s.store.Get(ctx, "forum", 10)
	s.Require().NoError(err)
	s.Zero(got.ModifiedBy)
	s.True(got.Enabled, "anonymization preserves the setting itself")

	listed, err := s.store.ListModifiedBy(ctx, 42)
	s.Require().NoError(err)
	s.Empty(listed)
}

func (s *PostgresStoreSuite) TestClockInjection() {
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := settings.NewPostgres(s.postgres.DB,
		settings.WithPostgresClock(func() time.Time { return fixed }))

	stored, err := store.Upsert(context.Background(), &settings.Setting{
		PolicyName: "forum", ContextID: 10, Enabled: true, ModifiedBy: 1,
	})
	s.Require().NoError(err)
	s.True(stored.CreatedAt.Equal(fixed))
}
