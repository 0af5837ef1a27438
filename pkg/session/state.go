package session

import (
	"fmt"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/pkg/content"
)

// BookmarkEdit is the in-progress edit of a personal bookmark
type BookmarkEdit struct {
	BookmarkID int64  `json:"bookmark_id"`
	Original   string `json:"original"`
	Draft      string `json:"draft"`
}

// State is the conversation state of one user on one app.
// It only changes through the transition methods below.
type State struct {
	AppID            int                   `json:"app_id"`
	SelectedModel    *entity.SemanticModel `json:"selected_model,omitempty"`
	Messages         []content.Message     `json:"messages"`
	ActiveSuggestion *string               `json:"active_suggestion,omitempty"`
	BookmarkEdit     *BookmarkEdit         `json:"bookmark_edit,omitempty"`
}

// Key scopes a session to one user-app pairing
type Key struct {
	Username string
	AppID    int
}

func (k Key) String() string {
	return fmt.Sprintf("session:%d:%s", k.AppID, k.Username)
}

// New returns an empty session for an app
func New(appID int) *State {
	return &State{AppID: appID, Messages: []content.Message{}}
}

func sameModel(a, b *entity.SemanticModel) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Id == b.Id && a.File == b.File
}

// EnsureInitialized keeps the selected model when it is still available,
// otherwise selects the first available one (registration order) or none.
func (s *State) EnsureInitialized(available []entity.SemanticModel) {
	if s.Messages == nil {
		s.Messages = []content.Message{}
	}
	for i := range available {
		if sameModel(s.SelectedModel, &available[i]) {
			return
		}
	}

	var next *entity.SemanticModel
	if len(available) > 0 {
		m := available[0]
		next = &m
	}
	if s.SelectedModel != nil {
		// the previous model disappeared: its conversation no longer applies
		s.resetConversation()
	}
	s.SelectedModel = next
}

// SwitchModel selects ref. A different model clears the conversation; the same model is a no-op.
// It reports whether the selection changed.
func (s *State) SwitchModel(ref entity.SemanticModel) bool {
	if sameModel(s.SelectedModel, &ref) {
		return false
	}
	s.SelectedModel = &ref
	s.resetConversation()
	return true
}

func (s *State) resetConversation() {
	s.Messages = []content.Message{}
	s.ActiveSuggestion = nil
}

func (s *State) AppendMessage(m content.Message) {
	s.Messages = append(s.Messages, m)
}

// ClearHistory drops every message and any pending suggestion
func (s *State) ClearHistory() {
	s.resetConversation()
}

func (s *State) SetActiveSuggestion(text string) {
	s.ActiveSuggestion = &text
}

// ConsumeActiveSuggestion reads and clears the pending suggestion
func (s *State) ConsumeActiveSuggestion() (string, bool) {
	if s.ActiveSuggestion == nil {
		return "", false
	}
	text := *s.ActiveSuggestion
	s.ActiveSuggestion = nil
	return text, true
}

// BeginBookmarkEdit starts editing a bookmark, replacing any edit in progress
func (s *State) BeginBookmarkEdit(id int64, original string) {
	s.BookmarkEdit = &BookmarkEdit{BookmarkID: id, Original: original, Draft: original}
}

// UpdateBookmarkDraft reports false when no edit is in progress
func (s *State) UpdateBookmarkDraft(text string) bool {
	if s.BookmarkEdit == nil {
		return false
	}
	s.BookmarkEdit.Draft = text
	return true
}

func (s *State) CancelBookmarkEdit() {
	s.BookmarkEdit = nil
}

// CommitBookmarkEdit ends the edit in progress and returns it with its final text
func (s *State) CommitBookmarkEdit(newText string) (BookmarkEdit, bool) {
	if s.BookmarkEdit == nil {
		return BookmarkEdit{}, false
	}
	edit := *s.BookmarkEdit
	edit.Draft = newText
	s.BookmarkEdit = nil
	return edit, true
}

// LastUserPrompt returns the question of the last user message before index, used by feedback actions
func (s *State) LastUserPrompt(before int) (string, bool) {
	if before > len(s.Messages) {
		before = len(s.Messages)
	}
	for i := before - 1; i >= 0; i-- {
		if s.Messages[i].Role == content.RoleUser {
			return s.Messages[i].PromptText(), true
		}
	}
	return "", false
}
