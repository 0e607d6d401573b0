package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session data in Redis; the cookie only carries the signed id.
type RedisStore struct {
	client *redis.Client
	codec  tokenCodec
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, secret []byte, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		codec:  tokenCodec{secret: secret, ttl: ttl},
		prefix: "session:",
		ttl:    ttl,
	}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) Load(ctx context.Context, token string) (*Session, error) {
	claims, err := s.codec.parse(token)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Get(ctx, s.key(claims.ID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: session %s expired", ErrInvalidToken, claims.ID)
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	sess := &Session{ID: claims.ID}
	if err := json.Unmarshal(raw, &sess.Data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.markLoaded()
	return sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) (string, error) {
	raw, err := json.Marshal(sess.Data)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), raw, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set session: %w", err)
	}
	return s.codec.sign(sess.ID, nil)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
