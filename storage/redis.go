package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldToken = "token"
	fieldTime  = "time"
)

var _ TokenStore = &RedisStore{}

// RedisConfig carries the redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps token state in one hash per user.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) GetTokenExpiry(ctx context.Context, userID int64) (int64, bool, error) {
	epoch, err := s.client.HGet(ctx, userKey(userID), fieldTime).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get token expiry for %d: %w", userID, err)
	}
	return epoch, true, nil
}

func (s *RedisStore) UpdateUserToken(ctx context.Context, userID int64, token string) error {
	key := userKey(userID)

	// Token and expiry must move together: a freshly issued token has no
	// recorded expiry until it is redeemed.
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fieldToken, token)
	pipe.HDel(ctx, key, fieldTime)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update token for %d: %w", userID, err)
	}
	return nil
}

func (s *RedisStore) GetUserToken(ctx context.Context, userID int64) (string, error) {
	token, err := s.client.HGet(ctx, userKey(userID), fieldToken).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get token for %d: %w", userID, err)
	}
	return token, nil
}

func (s *RedisStore) SetTokenExpiry(ctx context.Context, userID int64, epoch int64) error {
	if err := s.client.HSet(ctx, userKey(userID), fieldTime, epoch).Err(); err != nil {
		return fmt.Errorf("set token expiry for %d: %w", userID, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func userKey(userID int64) string {
	return fmt.Sprintf("accessgate:user:%d", userID)
}
