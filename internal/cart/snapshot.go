package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/emberwick/emberwick-backend/pkg/logger"
	pkgredis "github.com/emberwick/emberwick-backend/pkg/redis"
)

// SnapshotStore mirrors cart contents to a durable session-scoped store.
// Loads fall back to an empty cart and saves are best-effort: a denied
// write must never interrupt the shopping flow, so failures are logged
// and swallowed here.
type SnapshotStore interface {
	Load(ctx context.Context, token string) *Cart
	Save(ctx context.Context, token string, cart *Cart)
	Delete(ctx context.Context, token string)
}

type snapshotBackend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartSnapshotKey(token string) string
}

type redisSnapshotStore struct {
	backend snapshotBackend
	ttl     time.Duration
	logg    *logger.Logger
}

// NewRedisSnapshotStore builds the Redis-backed persistence adapter.
func NewRedisSnapshotStore(backend snapshotBackend, ttl time.Duration, logg *logger.Logger) SnapshotStore {
	return &redisSnapshotStore{backend: backend, ttl: ttl, logg: logg}
}

func (s *redisSnapshotStore) Load(ctx context.Context, token string) *Cart {
	raw, err := s.backend.Get(ctx, s.backend.CartSnapshotKey(token))
	if err != nil {
		if !errors.Is(err, pkgredis.Nil) && s.logg != nil {
			s.logg.Error(ctx, "cart snapshot load failed, starting empty", err)
		}
		return NewCart()
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "cart snapshot malformed, starting empty", err)
		}
		return NewCart()
	}
	if cart.Items == nil {
		cart.Items = []LineItem{}
	}
	return &cart
}

func (s *redisSnapshotStore) Save(ctx context.Context, token string, cart *Cart) {
	if cart == nil {
		return
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "cart snapshot marshal failed", err)
		}
		return
	}
	if err := s.backend.Set(ctx, s.backend.CartSnapshotKey(token), string(payload), s.ttl); err != nil && s.logg != nil {
		s.logg.Error(ctx, "cart snapshot save failed", err)
	}
}

func (s *redisSnapshotStore) Delete(ctx context.Context, token string) {
	if err := s.backend.Del(ctx, s.backend.CartSnapshotKey(token)); err != nil && s.logg != nil {
		s.logg.Error(ctx, "cart snapshot delete failed", err)
	}
}
