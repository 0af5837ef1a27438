package session

import (
	"testing"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/pkg/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	revenue = entity.SemanticModel{Id: 1, AppId: 3, Name: "revenue", File: "revenue.yaml", Active: true}
	churn   = entity.SemanticModel{Id: 2, AppId: 3, Name: "churn", File: "churn.yaml", Active: true}
)

func withConversation(s *State) {
	s.AppendMessage(content.UserMessage("What was total revenue in 2023?"))
	s.AppendMessage(content.Message{Role: content.RoleAssistant, Content: content.Blocks{content.Text{Body: "12M"}}})
	s.SetActiveSuggestion("By region?")
}

func TestEnsureInitialized(t *testing.T) {
	tests := []struct {
		name      string
		selected  *entity.SemanticModel
		available []entity.SemanticModel
		want      *entity.SemanticModel
	}{
		{name: "selects first when unset", available: []entity.SemanticModel{revenue, churn}, want: &revenue},
		{name: "keeps current when still available", selected: &churn, available: []entity.SemanticModel{revenue, churn}, want: &churn},
		{name: "falls back when current disappeared", selected: &churn, available: []entity.SemanticModel{revenue}, want: &revenue},
		{name: "no model available", selected: &churn, available: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(3)
			s.SelectedModel = tt.selected
			s.EnsureInitialized(tt.available)
			assert.Equal(t, tt.want, s.SelectedModel)
		})
	}
}

func TestEnsureInitialized_KeepsConversationOfAvailableModel(t *testing.T) {
	s := New(3)
	s.EnsureInitialized([]entity.SemanticModel{revenue})
	withConversation(s)

	s.EnsureInitialized([]entity.SemanticModel{revenue, churn})
	assert.Len(t, s.Messages, 2)
}

func TestSwitchModel_ClearsConversation(t *testing.T) {
	s := New(3)
	s.EnsureInitialized([]entity.SemanticModel{revenue, churn})
	withConversation(s)

	changed := s.SwitchModel(churn)

	assert.True(t, changed)
	assert.Equal(t, []content.Message{}, s.Messages)
	assert.Nil(t, s.ActiveSuggestion)
	assert.Equal(t, &churn, s.SelectedModel)
}

func TestSwitchModel_SameModelIsNoop(t *testing.T) {
	s := New(3)
	s.EnsureInitialized([]entity.SemanticModel{revenue, churn})
	s.SwitchModel(churn)
	withConversation(s)

	changed := s.SwitchModel(churn)

	assert.False(t, changed)
	assert.Len(t, s.Messages, 2)
	require.NotNil(t, s.ActiveSuggestion)
}

func TestActiveSuggestion_SingleUse(t *testing.T) {
	s := New(3)
	_, ok := s.ConsumeActiveSuggestion()
	assert.False(t, ok)

	s.SetActiveSuggestion("By month?")
	text, ok := s.ConsumeActiveSuggestion()
	assert.True(t, ok)
	assert.Equal(t, "By month?", text)

	_, ok = s.ConsumeActiveSuggestion()
	assert.False(t, ok)
}

func TestClearHistory(t *testing.T) {
	s := New(3)
	s.EnsureInitialized([]entity.SemanticModel{revenue})
	withConversation(s)

	s.ClearHistory()

	assert.Empty(t, s.Messages)
	assert.Nil(t, s.ActiveSuggestion)
	assert.Equal(t, &revenue, s.SelectedModel)
}

func TestBookmarkEdit(t *testing.T) {
	s := New(3)
	assert.False(t, s.UpdateBookmarkDraft("x"))
	_, ok := s.CommitBookmarkEdit("x")
	assert.False(t, ok)

	s.BeginBookmarkEdit(42, "Top 5 regions")
	require.NotNil(t, s.BookmarkEdit)
	assert.Equal(t, "Top 5 regions", s.BookmarkEdit.Draft)

	assert.True(t, s.UpdateBookmarkDraft("Top 10 regions"))
	edit, ok := s.CommitBookmarkEdit("Top 10 regions by revenue")
	assert.True(t, ok)
	assert.Equal(t, BookmarkEdit{BookmarkID: 42, Original: "Top 5 regions", Draft: "Top 10 regions by revenue"}, edit)
	assert.Nil(t, s.BookmarkEdit)

	s.BeginBookmarkEdit(43, "Churn by month")
	s.CancelBookmarkEdit()
	assert.Nil(t, s.BookmarkEdit)
}

func TestLastUserPrompt(t *testing.T) {
	s := New(3)
	withConversation(s)

	prompt, ok := s.LastUserPrompt(2)
	assert.True(t, ok)
	assert.Equal(t, "What was total revenue in 2023?", prompt)

	_, ok = s.LastUserPrompt(0)
	assert.False(t, ok)
}
