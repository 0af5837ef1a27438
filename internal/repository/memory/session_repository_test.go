package memory

import (
	"context"
	"testing"
	"time"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/pkg/content"
	"cortex-analyst-be/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)
	key := session.Key{Username: "alice", AppID: 3}

	missing, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, missing)

	state := session.New(3)
	state.EnsureInitialized([]entity.SemanticModel{{Id: 1, AppId: 3, File: "revenue.yaml", Active: true}})
	state.AppendMessage(content.UserMessage("Top 5 regions"))
	state.AppendMessage(content.Message{Role: content.RoleAssistant, Content: content.Blocks{
		content.Text{Body: "Here they are"},
		content.Suggestions{Items: []string{"By month?"}},
	}})
	require.NoError(t, repo.Save(ctx, key, state))

	loaded, err := repo.Load(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, state.SelectedModel, loaded.SelectedModel)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, state.Messages[1].Content, loaded.Messages[1].Content)

	// loaded states are copies
	loaded.ClearHistory()
	again, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.Len(t, again.Messages, 2)

	require.NoError(t, repo.Delete(ctx, key))
	gone, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSessionRepository_KeysAreScoped(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)

	require.NoError(t, repo.Save(ctx, session.Key{Username: "alice", AppID: 3}, session.New(3)))

	other, err := repo.Load(ctx, session.Key{Username: "bob", AppID: 3})
	require.NoError(t, err)
	assert.Nil(t, other)

	otherApp, err := repo.Load(ctx, session.Key{Username: "alice", AppID: 4})
	require.NoError(t, err)
	assert.Nil(t, otherApp)
}
