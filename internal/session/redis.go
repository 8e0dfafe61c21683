package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ergolab/consulta/internal/common"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "admin_session:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Create(ctx context.Context, adminID uint64, adminUsername string) (*Session, error) {
	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:            id,
		AdminID:       adminID,
		AdminUsername: adminUsername,
		CreatedAt:     time.Now(),
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, redisKeyPrefix+id, b, s.ttl).Err(); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	b, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, redisKeyPrefix+id).Err()
}
