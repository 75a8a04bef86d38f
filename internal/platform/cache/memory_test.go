package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MemoryCacheSuite struct {
	suite.Suite
	cache *Memory
	ctx   context.Context
}

func TestMemoryCacheSuite(t *testing.T) {
	suite.Run(t, new(MemoryCacheSuite))
}

func (s *MemoryCacheSuite) SetupTest() {
	s.cache = NewMemory()
	s.ctx = context.Background()
}

func (s *MemoryCacheSuite) TestMissVersusNegativeEntry() {
	_, found, err := s.cache.Get(s.ctx, "settings:forum:10")
	s.Require().NoError(err)
	s.False(found, "untouched key must be a miss")

	s.Require().NoError(s.cache.Set(s.ctx, "settings:forum:10", nil))

	value, found, err := s.cache.Get(s.ctx, "settings:forum:10")
	s.Require().NoError(err)
	s.True(found, "negative entry is a hit")
	s.Nil(value)
}

func (s *MemoryCacheSuite) TestSetOverwritesNegativeEntry() {
	s.Require().NoError(s.cache.Set(s.ctx, "k", nil))
	s.Require().NoError(s.cache.Set(s.ctx, "k", []byte(`{"enabled":true}`)))

	value, found, err := s.cache.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.True(found)
	s.Equal([]byte(`{"enabled":true}`), value)
}

func (s *MemoryCacheSuite) TestDelete() {
	s.Require().NoError(s.cache.Set(s.ctx, "k", []byte("v")))
	s.Require().NoError(s.cache.Delete(s.ctx, "k"))

	_, found, err := s.cache.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.False(found)

	s.Require().NoError(s.cache.Delete(s.ctx, "k"), "deleting a missing key is a no-op")
}

func (s *MemoryCacheSuite) TestPurge() {
	s.Require().NoError(s.cache.Set(s.ctx, "a", []byte("1")))
	s.Require().NoError(s.cache.Set(s.ctx, "b", nil))
	s.Require().Equal(2, s.cache.Len())

	s.Require().NoError(s.cache.Purge(s.ctx))
	s.Equal(0, s.cache.Len())

	_, found, err := s.cache.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.False(found)
}

func (s *MemoryCacheSuite) TestEmptyValueIsNotNegative() {
	s.Require().NoError(s.cache.Set(s.ctx, "k", []byte{}))

	value, found, err := s.cache.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.True(found)
	s.NotNil(value)
	s.Empty(value)
}
