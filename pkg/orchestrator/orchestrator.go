package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/pkg/logger"
	"cortex-analyst-be/pkg/analyst"
	"cortex-analyst-be/pkg/apperror"
	"cortex-analyst-be/pkg/content"
	"cortex-analyst-be/pkg/events"
	"cortex-analyst-be/pkg/session"
	"cortex-analyst-be/pkg/usagelog"

	"github.com/google/uuid"
)

// ErrMissingIdentity is returned when the host runtime supplied no username
var ErrMissingIdentity = errors.New("missing user identity")

type Asker interface {
	Ask(ctx context.Context, prompt string, app *entity.App, model *entity.SemanticModel) (*analyst.Answer, error)
}

type AppRegistry interface {
	App(ctx context.Context, appId int) (*entity.App, error)
	ActiveModels(ctx context.Context, appId int) ([]entity.SemanticModel, error)
}

type QueryRunner interface {
	Preview(ctx context.Context, statement string) (*content.Table, error)
}

type UsageRecorder interface {
	Record(ctx context.Context, e usagelog.Entry) (*entity.UsageLog, error)
}

type FeedbackStore interface {
	AddBookmark(ctx context.Context, appId int, username, question, lang string) (*entity.Bookmark, error)
	IsBookmarked(ctx context.Context, appId int, username, question string) (bool, error)
	ListBookmarks(ctx context.Context, appId int, username string) ([]*entity.Bookmark, error)
	ListSharedKeyQuestions(ctx context.Context, appId int, limit int) ([]string, error)
	UpdateBookmarkByID(ctx context.Context, id int64, appId int, username, newText string) error
	DeleteBookmarkByID(ctx context.Context, id int64, appId int, username string) error
	RecordVote(ctx context.Context, username, questionText, modelRef string, value int) (*entity.Vote, error)
	PopularQuestions(ctx context.Context, appId int, limit int) ([]string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, evt events.Event)
}

// Dependencies are the collaborators of the orchestrator. Runner and Events may be nil.
type Dependencies struct {
	Registry AppRegistry
	Sessions session.Repository
	Analyst  Asker
	Runner   QueryRunner
	Usage    UsageRecorder
	Feedback FeedbackStore
	Events   EventPublisher
	Logger   logger.ILogger
}

type Config struct {
	DefaultLang          string
	KeyQuestionLimit     int
	PopularQuestionLimit int
}

// Orchestrator drives one rerun: it loads the session, applies the user action,
// runs at most one analyst turn and returns what to draw.
type Orchestrator struct {
	deps Dependencies
	cfg  Config
}

func New(deps Dependencies, cfg Config) *Orchestrator {
	if cfg.DefaultLang == "" {
		cfg.DefaultLang = "FR"
	}
	return &Orchestrator{deps: deps, cfg: cfg}
}

// rerun is the state of one Run call
type rerun struct {
	o        *Orchestrator
	app      *entity.App
	models   []entity.SemanticModel
	state    *session.State
	username string
	turn     TurnState
	notices  []Notice
}

// Run executes one rerun. Only registry failures and a missing identity are returned as errors;
// everything else is reported as a notice in the view and the session stays usable.
func (o *Orchestrator) Run(ctx context.Context, req RunRequest) (*View, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, ErrMissingIdentity
	}

	app, err := o.deps.Registry.App(ctx, req.AppID)
	if err != nil {
		return nil, err
	}
	models, err := o.deps.Registry.ActiveModels(ctx, req.AppID)
	if err != nil {
		return nil, err
	}

	r := &rerun{o: o, app: app, models: models, username: req.Username, turn: TurnIdle}
	key := session.Key{Username: req.Username, AppID: app.Id}

	state, err := o.deps.Sessions.Load(ctx, key)
	if err != nil {
		o.deps.Logger.Warn("SESSION", "Failed to load session, starting a new one", map[string]interface{}{
			"error":  err.Error(),
			"app_id": app.Id,
		})
		r.notice(NoticeWarning, KindPersistence, "Your previous conversation could not be restored.")
	}
	if state == nil {
		state = session.New(app.Id)
	}
	state.EnsureInitialized(models)
	r.state = state

	r.apply(ctx, req.Action)
	view := r.view(ctx)

	if err := o.deps.Sessions.Save(ctx, key, state); err != nil {
		o.deps.Logger.Error("SESSION", "Failed to save session", map[string]interface{}{
			"error":  err.Error(),
			"app_id": app.Id,
		})
		view.Notices = append(view.Notices, Notice{
			Level:   NoticeWarning,
			Kind:    KindPersistence,
			Message: "This conversation could not be saved and may be lost on the next interaction.",
		})
	}

	return view, nil
}

// Statement returns the SQL statement of a rendered block, for downloads
func (o *Orchestrator) Statement(ctx context.Context, username string, appId, messageIndex, blockIndex int) (string, error) {
	state, err := o.deps.Sessions.Load(ctx, session.Key{Username: username, AppID: appId})
	if err != nil {
		return "", apperror.Persistence("load session", err)
	}
	notFound := &apperror.NotFoundError{Resource: "sql block", Key: fmt.Sprintf("%d/%d", messageIndex, blockIndex)}
	if state == nil || messageIndex < 0 || messageIndex >= len(state.Messages) {
		return "", notFound
	}
	blocks := state.Messages[messageIndex].Content
	if blockIndex < 0 || blockIndex >= len(blocks) {
		return "", notFound
	}
	sql, ok := blocks[blockIndex].(content.SqlResult)
	if !ok {
		return "", notFound
	}
	return sql.Statement, nil
}

func (r *rerun) notice(level NoticeLevel, kind, message string) {
	r.notices = append(r.notices, Notice{Level: level, Kind: kind, Message: message})
}

// fail turns a recoverable error into a notice
func (r *rerun) fail(err error) {
	var (
		cfgErr       *apperror.ConfigurationError
		apiErr       *analyst.Error
		persistErr   *apperror.PersistenceError
		notFoundErr  *apperror.NotFoundError
		malformedErr *content.MalformedContentError
	)
	switch {
	case errors.As(err, &cfgErr):
		r.notices = append(r.notices, Notice{Level: NoticeError, Kind: KindConfiguration, Message: err.Error(), Blocking: true})
	case errors.As(err, &apiErr):
		r.notices = append(r.notices, Notice{Level: NoticeError, Kind: KindAnalyst, Message: err.Error(), Status: apiErr.Status})
	case errors.As(err, &persistErr):
		r.notice(NoticeError, KindPersistence, err.Error())
	case errors.As(err, &notFoundErr):
		r.notice(NoticeWarning, KindNotFound, err.Error())
	case errors.As(err, &malformedErr):
		r.notice(NoticeWarning, KindMalformedContent, err.Error())
	case errors.Is(err, apperror.ErrInvalidVote):
		r.notice(NoticeWarning, KindInvalid, err.Error())
	default:
		r.notice(NoticeError, KindPersistence, err.Error())
	}
}

func (r *rerun) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if r.o.deps.Events == nil {
		return
	}
	data["app_id"] = r.app.Id
	data["username"] = r.username
	r.o.deps.Events.Publish(ctx, events.New(eventType, data))
}

func (r *rerun) requireModel() bool {
	if r.state.SelectedModel != nil {
		return true
	}
	r.fail(&apperror.ConfigurationError{AppID: r.app.Id, Reason: "no active semantic model"})
	return false
}

func (r *rerun) apply(ctx context.Context, a Action) {
	if a.Kind.IsPrompt() {
		if !r.requireModel() {
			return
		}
		if strings.TrimSpace(a.Text) == "" {
			r.notice(NoticeWarning, KindInvalid, "Please enter a question.")
			return
		}
		// every entry point goes through the active suggestion
		r.state.SetActiveSuggestion(a.Text)
		if prompt, ok := r.state.ConsumeActiveSuggestion(); ok {
			r.runTurn(ctx, prompt)
		}
		return
	}

	switch a.Kind {
	case ActionRender, "":
		if r.state.SelectedModel == nil {
			r.requireModel()
		}
	case ActionSelectModel:
		r.selectModel(a.ModelID)
	case ActionClearHistory:
		r.state.ClearHistory()
	case ActionAddBookmark:
		r.addBookmark(ctx, a)
	case ActionVote:
		r.vote(ctx, a)
	case ActionBeginEdit:
		r.beginEdit(ctx, a.BookmarkID)
	case ActionDraftEdit:
		if !r.state.UpdateBookmarkDraft(a.Text) {
			r.notice(NoticeWarning, KindInvalid, "No bookmark is being edited.")
		}
	case ActionCancelEdit:
		r.state.CancelBookmarkEdit()
	case ActionCommitEdit:
		r.commitEdit(ctx, a.Text)
	case ActionDeleteBookmark:
		r.deleteBookmark(ctx, a.BookmarkID)
	default:
		r.notice(NoticeWarning, KindInvalid, fmt.Sprintf("Unknown action %q.", a.Kind))
	}
}

func (r *rerun) selectModel(modelID int) {
	for _, m := range r.models {
		if m.Id == modelID {
			if r.state.SwitchModel(m) {
				r.o.deps.Logger.Info("SESSION", "Semantic model switched", map[string]interface{}{
					"app_id": r.app.Id,
					"model":  m.File,
				})
			}
			return
		}
	}
	r.fail(&apperror.NotFoundError{Resource: "semantic model", Key: fmt.Sprint(modelID)})
}

// runTurn is Idle -> AwaitingAnswer -> Rendered, or Failed when the analyst call fails
func (r *rerun) runTurn(ctx context.Context, prompt string) {
	o := r.o
	model := r.state.SelectedModel
	turnID := uuid.NewString()

	r.state.AppendMessage(content.UserMessage(prompt))
	r.turn = TurnAwaitingAnswer

	o.deps.Logger.Info("ORCHESTRATOR", "Turn started", map[string]interface{}{
		"turn_id": turnID,
		"app_id":  r.app.Id,
		"model":   model.File,
	})

	answer, err := o.deps.Analyst.Ask(ctx, prompt, r.app, model)
	if err != nil {
		// the user message stays so the question can be resubmitted
		r.turn = TurnFailed
		r.fail(err)
		status := 0
		var apiErr *analyst.Error
		if errors.As(err, &apiErr) {
			status = apiErr.Status
		}
		o.deps.Logger.Warn("ORCHESTRATOR", "Turn failed", map[string]interface{}{
			"turn_id": turnID,
			"error":   err.Error(),
		})
		r.publish(ctx, events.TypeTurnFailed, map[string]interface{}{
			"turn_id":   turnID,
			"model_ref": model.File,
			"status":    status,
			"detail":    err.Error(),
		})
		return
	}

	for _, f := range answer.Failures {
		r.fail(f)
	}

	blocks := r.previewStatements(ctx, answer.Blocks)
	r.state.AppendMessage(content.Message{Role: content.RoleAssistant, Content: blocks})
	r.turn = TurnRendered

	// a failed log write never takes the answer back
	if _, err := o.deps.Usage.Record(ctx, usagelog.Entry{
		Username:  r.username,
		AppID:     r.app.Id,
		AppName:   r.app.Name,
		ModelRef:  model.File,
		InputText: prompt,
		Output:    blocks,
		ElapsedMs: answer.ElapsedMs(),
	}); err != nil {
		r.fail(err)
	}

	o.deps.Logger.Info("ORCHESTRATOR", "Turn rendered", map[string]interface{}{
		"turn_id":    turnID,
		"request_id": answer.RequestID,
		"blocks":     len(blocks),
		"elapsed_ms": answer.ElapsedMs(),
	})
	r.publish(ctx, events.TypeTurnCompleted, map[string]interface{}{
		"turn_id":    turnID,
		"request_id": answer.RequestID,
		"model_ref":  model.File,
		"elapsed_ms": answer.ElapsedMs(),
		"blocks":     len(blocks),
	})
}

// previewStatements runs each generated statement and attaches its preview table
func (r *rerun) previewStatements(ctx context.Context, blocks []content.Block) content.Blocks {
	out := make(content.Blocks, len(blocks))
	copy(out, blocks)
	if r.o.deps.Runner == nil {
		return out
	}
	for i, b := range out {
		sql, ok := b.(content.SqlResult)
		if !ok {
			continue
		}
		table, err := r.o.deps.Runner.Preview(ctx, sql.Statement)
		if err != nil {
			sql.QueryError = err.Error()
			r.notice(NoticeWarning, KindInvalid, "The generated query could not be executed.")
		} else {
			sql.Table = table
			if table.Empty() {
				r.notice(NoticeInfo, KindEmptyResult, "The query returned no rows.")
			}
		}
		out[i] = sql
	}
	return out
}

func (r *rerun) view(ctx context.Context) *View {
	o := r.o
	v := &View{
		App:              AppView{Id: r.app.Id, Name: r.app.Name, LogoUrl: r.app.LogoUrl},
		Models:           modelOptions(r.models, r.state.SelectedModel),
		Ready:            r.state.SelectedModel != nil,
		Turn:             r.turn,
		Messages:         messageViews(r.state.Messages),
		KeyQuestions:     []QuestionButton{},
		PopularQuestions: []QuestionButton{},
		Bookmarks:        []BookmarkView{},
		BookmarkEdit:     r.state.BookmarkEdit,
	}

	if keys, err := o.deps.Feedback.ListSharedKeyQuestions(ctx, r.app.Id, o.cfg.KeyQuestionLimit); err != nil {
		r.fail(err)
	} else {
		v.KeyQuestions = questionButtons(content.ElementKeyQuestion, keys)
	}

	if popular, err := o.deps.Feedback.PopularQuestions(ctx, r.app.Id, o.cfg.PopularQuestionLimit); err != nil {
		r.fail(err)
	} else {
		v.PopularQuestions = questionButtons(content.ElementPopularQuestion, popular)
	}

	if bookmarks, err := o.deps.Feedback.ListBookmarks(ctx, r.app.Id, r.username); err != nil {
		r.fail(err)
	} else {
		v.Bookmarks = bookmarkViews(bookmarks)
	}

	v.Notices = r.notices
	if v.Notices == nil {
		v.Notices = []Notice{}
	}
	return v
}
