package infra_redis_token

import (
	"context"
	"time"

	"github.com/go-redis/redis"
)

const tokenKey = "token"

// Store keeps the bearer token of one account under <prefix>:token:<account>.
type Store struct {
	client  *redis.Client
	prefix  string
	account string
	ttl     time.Duration
}

func New(
	client *redis.Client,
	prefix string,
	account string,
	ttl time.Duration,
) *Store {
	return &Store{
		client:  client,
		prefix:  prefix,
		account: account,
		ttl:     ttl,
	}
}

func (s *Store) Set(_ context.Context, token string) error {
	return s.client.Set(s.getFullKey(), token, s.ttl).Err()
}

func (s *Store) Get(_ context.Context) (string, error) {
	val, err := s.client.Get(s.getFullKey()).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}

	return val, nil
}

func (s *Store) Delete(_ context.Context) error {
	return s.client.Del(s.getFullKey()).Err()
}

func (s *Store) getFullKey() string {
	key := tokenKey
	if s.account != "" {
		key += ":" + s.account
	}
	if s.prefix != "" {
		return s.prefix + ":" + key
	}
	return key
}
