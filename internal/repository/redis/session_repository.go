package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"cortex-analyst-be/pkg/session"

	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "cortex:"
	defaultTTL = 1 * time.Hour
)

// SessionRepository keeps session states in Redis so reruns can land on any instance
type SessionRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *goredis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SessionRepository{client: client, ttl: ttl}
}

// NewClientFromURL parses a redis:// URL and pings the server
func NewClientFromURL(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (r *SessionRepository) Load(ctx context.Context, key session.Key) (*session.State, error) {
	k := r.key(key)
	val, err := r.client.Get(ctx, k).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state session.State
	if err := json.Unmarshal(val, &state); err != nil {
		return nil, err
	}

	// refresh TTL on read; a failure only shortens the session
	_ = r.client.Expire(ctx, k, r.ttl).Err()

	return &state, nil
}

func (r *SessionRepository) Save(ctx context.Context, key session.Key, state *session.State) error {
	val, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), val, r.ttl).Err()
}

func (r *SessionRepository) Delete(ctx context.Context, key session.Key) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *SessionRepository) key(key session.Key) string {
	return keyPrefix + key.String()
}
