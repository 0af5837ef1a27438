package orchestrator

import (
	"strconv"
	"time"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/pkg/content"
	"cortex-analyst-be/pkg/session"
)

// TurnState is where the turn machine ended for this rerun
type TurnState string

const (
	TurnIdle           TurnState = "idle"
	TurnAwaitingAnswer TurnState = "awaiting_answer"
	TurnRendered       TurnState = "rendered"
	TurnFailed         TurnState = "failed"
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice kinds
const (
	KindConfiguration    = "configuration"
	KindAnalyst          = "analyst"
	KindMalformedContent = "malformed_content"
	KindPersistence      = "persistence"
	KindNotFound         = "not_found"
	KindInvalid          = "invalid"
	KindEmptyResult      = "empty_result"
	KindFeedback         = "feedback"
)

// Notice is an inline message shown next to what triggered it
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Kind    string      `json:"kind"`
	Message string      `json:"message"`
	// Status is the analyst HTTP status, when there was one
	Status   int  `json:"status,omitempty"`
	Blocking bool `json:"blocking,omitempty"`
}

type AppView struct {
	Id      int    `json:"id"`
	Name    string `json:"name"`
	LogoUrl string `json:"logo_url"`
}

type ModelOption struct {
	Id       int    `json:"id"`
	Name     string `json:"name"`
	File     string `json:"file"`
	Selected bool   `json:"selected"`
}

type QuestionButton struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type BookmarkView struct {
	Id        int64     `json:"id"`
	Question  string    `json:"question"`
	Lang      string    `json:"lang"`
	UpdatedAt time.Time `json:"updated_at"`
	Key       string    `json:"key"`
	EditKey   string    `json:"edit_key"`
	DeleteKey string    `json:"delete_key"`
}

// FeedbackKeys are the element keys of the buttons under an assistant message
type FeedbackKeys struct {
	Bookmark string `json:"bookmark"`
	Like     string `json:"like"`
	Dislike  string `json:"dislike"`
}

type BlockView struct {
	Index int          `json:"index"`
	Kind  content.Kind `json:"kind"`

	Text string `json:"text,omitempty"`

	Suggestions []content.SuggestionItem `json:"suggestions,omitempty"`

	Statement      string   `json:"statement,omitempty"`
	Columns        []string `json:"columns,omitempty"`
	Rows           [][]any  `json:"rows,omitempty"`
	Truncated      bool     `json:"truncated,omitempty"`
	NumericColumns []string `json:"numeric_columns,omitempty"`
	QueryError     string   `json:"query_error,omitempty"`
	DownloadKey    string   `json:"download_key,omitempty"`

	OpaqueType string `json:"opaque_type,omitempty"`
}

type MessageView struct {
	Index    int           `json:"index"`
	Role     content.Role  `json:"role"`
	Blocks   []BlockView   `json:"blocks"`
	Question string        `json:"question,omitempty"`
	Feedback *FeedbackKeys `json:"feedback,omitempty"`
}

// View is everything the front-end draws after one rerun
type View struct {
	App              AppView               `json:"app"`
	Models           []ModelOption         `json:"models"`
	Ready            bool                  `json:"ready"`
	Turn             TurnState             `json:"turn"`
	Messages         []MessageView         `json:"messages"`
	KeyQuestions     []QuestionButton      `json:"key_questions"`
	PopularQuestions []QuestionButton      `json:"popular_questions"`
	Bookmarks        []BookmarkView        `json:"bookmarks"`
	BookmarkEdit     *session.BookmarkEdit `json:"bookmark_edit,omitempty"`
	Notices          []Notice              `json:"notices"`
}

// panel buttons live outside the conversation
const panelMessageIndex = -1

func questionButtons(role content.ElementRole, questions []string) []QuestionButton {
	out := make([]QuestionButton, len(questions))
	for i, q := range questions {
		out[i] = QuestionButton{
			Key:  content.ElementKey(role, content.Position{MessageIndex: panelMessageIndex, BlockIndex: i}, q),
			Text: q,
		}
	}
	return out
}

func bookmarkViews(bookmarks []*entity.Bookmark) []BookmarkView {
	out := make([]BookmarkView, len(bookmarks))
	for i, b := range bookmarks {
		pos := content.Position{MessageIndex: panelMessageIndex, BlockIndex: i}
		id := strconv.FormatInt(b.Id, 10)
		out[i] = BookmarkView{
			Id:        b.Id,
			Question:  b.Question,
			Lang:      b.Lang,
			UpdatedAt: b.UpdatedAt,
			Key:       content.ElementKey(content.ElementBookmarkItem, pos, id),
			EditKey:   content.ElementKey(content.ElementBookmarkEdit, pos, id),
			DeleteKey: content.ElementKey(content.ElementBookmarkDelete, pos, id),
		}
	}
	return out
}

func modelOptions(models []entity.SemanticModel, selected *entity.SemanticModel) []ModelOption {
	out := make([]ModelOption, len(models))
	for i, m := range models {
		out[i] = ModelOption{
			Id:       m.Id,
			Name:     m.Name,
			File:     m.File,
			Selected: selected != nil && selected.Id == m.Id,
		}
	}
	return out
}

func messageViews(messages []content.Message) []MessageView {
	out := make([]MessageView, len(messages))
	question := ""
	for i, m := range messages {
		mv := MessageView{Index: i, Role: m.Role, Blocks: make([]BlockView, len(m.Content))}
		for j, b := range m.Content {
			mv.Blocks[j] = blockView(b, content.Position{MessageIndex: i, BlockIndex: j})
		}

		if m.Role == content.RoleUser {
			question = m.PromptText()
		} else if question != "" {
			// buttons of an answer are keyed by the question they judge
			pos := content.Position{MessageIndex: i, BlockIndex: -1}
			mv.Question = question
			mv.Feedback = &FeedbackKeys{
				Bookmark: content.ElementKey(content.ElementBookmark, pos, question),
				Like:     content.ElementKey(content.ElementVoteUp, pos, question),
				Dislike:  content.ElementKey(content.ElementVoteDown, pos, question),
			}
		}
		out[i] = mv
	}
	return out
}

func blockView(b content.Block, pos content.Position) BlockView {
	r := content.Render(b, pos)
	bv := BlockView{
		Index:       pos.BlockIndex,
		Kind:        r.Kind,
		Text:        r.Text,
		Suggestions: r.Suggestions,
		Statement:   r.Statement,
		Columns:     r.Columns,
		QueryError:  r.QueryError,
		DownloadKey: r.DownloadKey,
		OpaqueType:  r.OpaqueType,
	}
	if sql, ok := b.(content.SqlResult); ok {
		if sql.Table != nil {
			bv.Truncated = sql.Table.Truncated
			bv.NumericColumns = sql.Table.NumericColumns()
		}
		cur := r.Rows
		for cur.Next() {
			bv.Rows = append(bv.Rows, cur.Row())
		}
		cur.Close()
	}
	return bv
}
