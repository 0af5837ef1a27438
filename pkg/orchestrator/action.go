package orchestrator

// ActionKind names what the user did to trigger a rerun
type ActionKind string

const (
	// ActionRender only redraws the current state
	ActionRender ActionKind = "render"

	// prompt entry points, all normalized through the active suggestion
	ActionAsk              ActionKind = "ask"
	ActionSuggestion       ActionKind = "suggestion"
	ActionKeyQuestion      ActionKind = "key_question"
	ActionPopularQuestion  ActionKind = "popular_question"
	ActionBookmarkQuestion ActionKind = "bookmark_question"

	ActionSelectModel  ActionKind = "select_model"
	ActionClearHistory ActionKind = "clear_history"

	// feedback sub-operations, outside the turn machine
	ActionAddBookmark    ActionKind = "add_bookmark"
	ActionVote           ActionKind = "vote"
	ActionBeginEdit      ActionKind = "begin_edit_bookmark"
	ActionDraftEdit      ActionKind = "draft_bookmark"
	ActionCancelEdit     ActionKind = "cancel_edit_bookmark"
	ActionCommitEdit     ActionKind = "save_bookmark"
	ActionDeleteBookmark ActionKind = "delete_bookmark"
)

// Action is one user interaction. Only the fields relevant to Kind are read.
type Action struct {
	Kind ActionKind
	// Text is the prompt, the clicked question, or the bookmark text
	Text         string
	ModelID      int
	BookmarkID   int64
	MessageIndex int
	Value        int
	Lang         string
}

// IsPrompt reports whether the action starts a turn
func (k ActionKind) IsPrompt() bool {
	switch k {
	case ActionAsk, ActionSuggestion, ActionKeyQuestion, ActionPopularQuestion, ActionBookmarkQuestion:
		return true
	}
	return false
}

// RunRequest is one rerun of the front-end for one user on one app
type RunRequest struct {
	Username string
	AppID    int
	Action   Action
}
