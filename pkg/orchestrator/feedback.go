package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"cortex-analyst-be/pkg/apperror"
	"cortex-analyst-be/pkg/content"
	"cortex-analyst-be/pkg/events"
	"cortex-analyst-be/pkg/feedback"
)

// answeredQuestion returns the question an assistant message answered
func (r *rerun) answeredQuestion(messageIndex int) (string, error) {
	msgs := r.state.Messages
	if messageIndex < 0 || messageIndex >= len(msgs) || msgs[messageIndex].Role != content.RoleAssistant {
		return "", &apperror.NotFoundError{Resource: "answer", Key: fmt.Sprint(messageIndex)}
	}
	question, ok := r.state.LastUserPrompt(messageIndex)
	if !ok {
		return "", &apperror.NotFoundError{Resource: "question", Key: fmt.Sprint(messageIndex)}
	}
	return question, nil
}

func (r *rerun) addBookmark(ctx context.Context, a Action) {
	question := strings.TrimSpace(a.Text)
	if question == "" {
		q, err := r.answeredQuestion(a.MessageIndex)
		if err != nil {
			r.fail(err)
			return
		}
		question = q
	}
	lang := a.Lang
	if lang == "" {
		lang = r.o.cfg.DefaultLang
	}

	exists, err := r.o.deps.Feedback.IsBookmarked(ctx, r.app.Id, r.username, question)
	if err != nil {
		r.fail(err)
		return
	}
	if exists {
		r.notice(NoticeInfo, KindFeedback, "This question is already in your bookmarks.")
		return
	}

	bookmark, err := r.o.deps.Feedback.AddBookmark(ctx, r.app.Id, r.username, question, lang)
	if err != nil {
		r.fail(err)
		return
	}
	r.notice(NoticeSuccess, KindFeedback, "Question bookmarked.")
	r.publish(ctx, events.TypeBookmarkChanged, map[string]interface{}{
		"bookmark_id": bookmark.Id,
		"change":      "created",
	})
}

func (r *rerun) vote(ctx context.Context, a Action) {
	if err := feedback.ValidateVote(a.Value); err != nil {
		r.fail(err)
		return
	}
	if !r.requireModel() {
		return
	}
	question, err := r.answeredQuestion(a.MessageIndex)
	if err != nil {
		r.fail(err)
		return
	}

	modelRef := r.state.SelectedModel.File
	if _, err := r.o.deps.Feedback.RecordVote(ctx, r.username, question, modelRef, a.Value); err != nil {
		r.fail(err)
		return
	}
	r.notice(NoticeSuccess, KindFeedback, "Thanks for your feedback.")
	r.publish(ctx, events.TypeVoteRecorded, map[string]interface{}{
		"question":  question,
		"model_ref": modelRef,
		"value":     a.Value,
	})
}

func (r *rerun) beginEdit(ctx context.Context, id int64) {
	bookmarks, err := r.o.deps.Feedback.ListBookmarks(ctx, r.app.Id, r.username)
	if err != nil {
		r.fail(err)
		return
	}
	for _, b := range bookmarks {
		if b.Id == id {
			r.state.BeginBookmarkEdit(b.Id, b.Question)
			return
		}
	}
	r.fail(&apperror.NotFoundError{Resource: "bookmark", Key: fmt.Sprint(id)})
}

func (r *rerun) commitEdit(ctx context.Context, text string) {
	if text == "" && r.state.BookmarkEdit != nil {
		text = r.state.BookmarkEdit.Draft
	}
	text = strings.TrimSpace(text)
	if text == "" {
		r.notice(NoticeWarning, KindInvalid, "A bookmark cannot be empty.")
		return
	}

	edit, ok := r.state.CommitBookmarkEdit(text)
	if !ok {
		r.notice(NoticeWarning, KindInvalid, "No bookmark is being edited.")
		return
	}
	if err := r.o.deps.Feedback.UpdateBookmarkByID(ctx, edit.BookmarkID, r.app.Id, r.username, edit.Draft); err != nil {
		// keep editing so the user can retry
		r.state.BookmarkEdit = &edit
		r.fail(err)
		return
	}
	r.notice(NoticeSuccess, KindFeedback, "Bookmark updated.")
	r.publish(ctx, events.TypeBookmarkChanged, map[string]interface{}{
		"bookmark_id": edit.BookmarkID,
		"change":      "updated",
	})
}

func (r *rerun) deleteBookmark(ctx context.Context, id int64) {
	if err := r.o.deps.Feedback.DeleteBookmarkByID(ctx, id, r.app.Id, r.username); err != nil {
		r.fail(err)
		return
	}
	if r.state.BookmarkEdit != nil && r.state.BookmarkEdit.BookmarkID == id {
		r.state.CancelBookmarkEdit()
	}
	r.notice(NoticeSuccess, KindFeedback, "Bookmark deleted.")
	r.publish(ctx, events.TypeBookmarkChanged, map[string]interface{}{
		"bookmark_id": id,
		"change":      "deleted",
	})
}
