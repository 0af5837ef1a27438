package memory

import (
	"context"
	"encoding/json"
	"time"

	"cortex-analyst-be/pkg/session"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps session states in process memory.
// States are stored serialized so a loaded state never aliases the stored one.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	// purges expired items every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(ctx context.Context, key session.Key, state *session.State) error {
	val, err := json.Marshal(state)
	if err != nil {
		return err
	}
	r.cache.Set(key.String(), val, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Load(ctx context.Context, key session.Key) (*session.State, error) {
	x, found := r.cache.Get(key.String())
	if !found {
		return nil, nil
	}
	var state session.State
	if err := json.Unmarshal(x.([]byte), &state); err != nil {
		return nil, err
	}
	// sliding expiration, like a browser session
	r.cache.Set(key.String(), x, cache.DefaultExpiration)
	return &state, nil
}

func (r *SessionRepository) Delete(ctx context.Context, key session.Key) error {
	r.cache.Delete(key.String())
	return nil
}
