package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/nikolayk812/storefront-core/internal/domain"
	"github.com/nikolayk812/storefront-core/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type redisStoreSuite struct {
	suite.Suite

	client *redis.Client
	store  *repository.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	suite.Run(t, new(redisStoreSuite))
}

func (suite *redisStoreSuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startRedis(ctx)
	suite.Require().NoError(err)

	opt, err := redis.ParseURL(connStr)
	suite.Require().NoError(err)

	suite.client = redis.NewClient(opt)
	suite.Require().NoError(suite.client.Ping(ctx).Err())

	suite.store, err = repository.NewRedisStore(suite.client, repository.WithKeyPrefix("test:"))
	suite.Require().NoError(err)
}

func (suite *redisStoreSuite) TearDownSuite() {
	if suite.client != nil {
		suite.NoError(suite.client.Close())
	}
}

func (suite *redisStoreSuite) TestContract() {
	testKeyValueStore(suite.T(), suite.store)
}

func (suite *redisStoreSuite) TestKeyPrefix() {
	t := suite.T()
	ctx := t.Context()

	require.NoError(t, suite.store.Set(ctx, "cartItems", []byte("[]")))

	raw, err := suite.client.Get(ctx, "test:cartItems").Result()
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func (suite *redisStoreSuite) TestTTL() {
	t := suite.T()
	ctx := t.Context()

	store, err := repository.NewRedisStore(suite.client, repository.WithTTL(time.Second))
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "expiring", []byte("v")))

	assert.Eventually(t, func() bool {
		_, err := store.Get(ctx, "expiring")
		return errors.Is(err, domain.ErrKeyNotFound)
	}, 5*time.Second, 100*time.Millisecond)
}

func TestNewRedisStore_nilClient(t *testing.T) {
	_, err := repository.NewRedisStore(nil)
	require.EqualError(t, err, "client is nil")
}
