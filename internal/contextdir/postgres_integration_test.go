//go:build integration

package contextdir_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"integrity/internal/contextdir"
	"integrity/pkg/testutil/containers"
)

type PostgresDirectorySuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	directory *contextdir.PostgresDirectory
}

func TestPostgresDirectorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresDirectorySuite))
}

func (s *PostgresDirectorySuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.directory = contextdir.NewPostgres(s.postgres.DB)
}

func (s *PostgresDirectorySuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "integrity_contexts"))
	for _, row := range [][2]int64{{10, 1}, {11, 1}, {20, 2}} {
		_, err := s.postgres.DB.ExecContext(ctx,
			"INSERT INTO integrity_contexts (context_id, course_id) VALUES ($1, $2)",
			row[0], row[1])
		s.Require().NoError(err)
	}
}

func (s *PostgresDirectorySuite) TestContextIDsForCourses() {
	ids, err := s.directory.ContextIDsForCourses(context.Background(), []int64{1})
	s.Require().NoError(err)
	s.Equal([]int64{10, 11}, ids)

	ids, err = s.directory.ContextIDsForCourses(context.Background(), []int64{1, 2})
	s.Require().NoError(err)
	s.Equal([]int64{10, 11, 20}, ids)

	ids, err = s.directory.ContextIDsForCourses(context.Background(), []int64{99})
	s.Require().NoError(err)
	s.Empty(ids)
}
