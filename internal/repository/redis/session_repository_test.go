package redis

import (
	"context"
	"testing"
	"time"

	"cortex-analyst-be/pkg/content"
	"cortex-analyst-be/pkg/session"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, ttl time.Duration) (*SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionRepository(client, ttl), mr
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepository(t, time.Minute)
	key := session.Key{Username: "alice", AppID: 3}

	missing, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, missing)

	state := session.New(3)
	state.AppendMessage(content.UserMessage("What was total revenue in 2023?"))
	state.SetActiveSuggestion("By region?")
	require.NoError(t, repo.Save(ctx, key, state))
	assert.True(t, mr.Exists("cortex:session:3:alice"))

	loaded, err := repo.Load(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "What was total revenue in 2023?", loaded.Messages[0].PromptText())
	require.NotNil(t, loaded.ActiveSuggestion)
	assert.Equal(t, "By region?", *loaded.ActiveSuggestion)

	require.NoError(t, repo.Delete(ctx, key))
	gone, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSessionRepository_Expires(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepository(t, time.Minute)
	key := session.Key{Username: "alice", AppID: 3}

	require.NoError(t, repo.Save(ctx, key, session.New(3)))
	mr.FastForward(2 * time.Minute)

	state, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestSessionRepository_UnreachableServer(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepository(t, time.Minute)
	mr.Close()

	_, err := repo.Load(ctx, session.Key{Username: "alice", AppID: 3})
	assert.Error(t, err)
}
