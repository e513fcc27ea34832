//go:build integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type RedisLimiterSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *redis.Client
}

func TestRedisLimiterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLimiterSuite))
}

func (s *RedisLimiterSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(ctx)
	s.Require().NoError(err)
	opts, err := redis.ParseURL(uri)
	s.Require().NoError(err)
	s.client = redis.NewClient(opts)
	s.Require().NoError(s.client.Ping(ctx).Err())
}

func (s *RedisLimiterSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *RedisLimiterSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(context.Background()).Err())
}

func (s *RedisLimiterSuite) TestBlocksAfterLimitWithTTL() {
	ctx := context.Background()
	limiter := NewRedisLimiter(s.client, "intake", 3, time.Hour)

	for i := 0; i < 3; i++ {
		decision, err := limiter.Allow(ctx, "203.0.113.7")
		s.Require().NoError(err)
		s.True(decision.Allowed)
		s.Equal(2-i, decision.Remaining)
	}

	decision, err := limiter.Allow(ctx, "203.0.113.7")
	s.Require().NoError(err)
	s.False(decision.Allowed)
	s.Greater(decision.RetryAfter, 59*time.Minute)

	ttl, err := s.client.TTL(ctx, "intake:203.0.113.7").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisLimiterSuite) TestKeysAreIndependent() {
	ctx := context.Background()
	limiter := NewRedisLimiter(s.client, "intake", 1, time.Hour)

	first, err := limiter.Allow(ctx, "a")
	s.Require().NoError(err)
	s.True(first.Allowed)

	other, err := limiter.Allow(ctx, "b")
	s.Require().NoError(err)
	s.True(other.Allowed)
}
