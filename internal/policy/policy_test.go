package policy

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"integrity/internal/platform/config"
	pkgerrors "integrity/pkg/domain-errors"
)

type PolicySuite struct {
	suite.Suite
}

func TestPolicySuite(t *testing.T) {
	suite.Run(t, new(PolicySuite))
}

func (s *PolicySuite) forumPolicy() Policy {
	return Policy{
		Name:        "forum",
		DisplayURLs: []string{"/mod/forum/view.php", "/mod/forum/index.php"},
	}
}

func (s *PolicySuite) TestMatchesBaseComparison() {
	p := s.forumPolicy()

	s.Run("path match ignores query", func() {
		s.True(p.Matches("https://lms.example.com/mod/forum/view.php?id=42"))
	})

	s.Run("any declared URL matches", func() {
		s.True(p.Matches("https://lms.example.com/mod/forum/index.php"))
	})

	s.Run("different path does not match", func() {
		s.False(p.Matches("https://lms.example.com/mod/quiz/view.php?id=42"))
	})

	s.Run("trailing slash is ignored", func() {
		s.True(p.Matches("https://lms.example.com/mod/forum/view.php/"))
	})

	s.Run("unparseable URL does not match", func() {
		s.False(p.Matches("://not-a-url"))
	})
}

func (s *PolicySuite) TestMatchesAbsoluteTarget() {
	p := Policy{
		Name:        "lti",
		DisplayURLs: []string{"https://lms.example.com/mod/lti/launch.php"},
	}
	s.True(p.Matches("https://LMS.example.com/mod/lti/launch.php?id=1"))
	s.False(p.Matches("https://other.example.com/mod/lti/launch.php"))
}

type RegistrySuite struct {
	suite.Suite
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) TestGetUnknownPolicy() {
	reg, err := NewRegistry([]config.PolicyConfig{{Name: "forum"}})
	s.Require().NoError(err)

	_, err = reg.Get("nosuch")
	s.Require().Error(err)
	s.True(pkgerrors.Is(err, pkgerrors.CodeUnknownPolicy))
	s.Contains(err.Error(), "nosuch", "error must echo the unresolved name")
}

func (s *RegistrySuite) TestDuplicateNameRejected() {
	_, err := NewRegistry([]config.PolicyConfig{{Name: "forum"}, {Name: "forum"}})
	s.Error(err)
}

func (s *RegistrySuite) TestInvalidNameRejected() {
	_, err := NewRegistry([]config.PolicyConfig{{Name: "bad name"}})
	s.Error(err)
}

func (s *RegistrySuite) TestAllStableOrder() {
	reg, err := NewRegistry([]config.PolicyConfig{
		{Name: "wiki"}, {Name: "forum"}, {Name: "lti"},
	})
	s.Require().NoError(err)

	var names []string
	for _, p := range reg.All() {
		names = append(names, p.Name)
	}
	s.Equal([]string{"forum", "lti", "wiki"}, names)
}

func (s *RegistrySuite) TestGetReturnsDeclaration() {
	reg, err := NewRegistry([]config.PolicyConfig{{
		Name:           "forum",
		DisplayURLs:    []string{"/mod/forum/view.php"},
		DefaultEnabled: true,
		Notice:         "Be honest.",
	}})
	s.Require().NoError(err)

	p, err := reg.Get("forum")
	s.Require().NoError(err)
	s.True(p.DefaultEnabled)
	s.Equal("Be honest.", p.Notice)
	s.True(reg.Has("forum"))
	s.False(reg.Has("quiz"))
}
