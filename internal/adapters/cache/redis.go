package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/ports"
)

func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// RedisCodeStore keeps transient verification codes (registration OTP,
// password reset, email verify) with store-enforced TTLs. Expiry never
// has to be compared in application code; a lapsed code is simply gone.
type RedisCodeStore struct {
	client *redis.Client
}

func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func (s *RedisCodeStore) Put(ctx context.Context, purpose ports.CodePurpose, key, code string, ttl time.Duration) error {
	return s.client.Set(ctx, codeKey(purpose, key), code, ttl).Err()
}

func (s *RedisCodeStore) Get(ctx context.Context, purpose ports.CodePurpose, key string) (string, error) {
	code, err := s.client.Get(ctx, codeKey(purpose, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

func (s *RedisCodeStore) Delete(ctx context.Context, purpose ports.CodePurpose, key string) error {
	return s.client.Del(ctx, codeKey(purpose, key)).Err()
}

func codeKey(purpose ports.CodePurpose, key string) string {
	return "auth:code:" + string(purpose) + ":" + key
}
