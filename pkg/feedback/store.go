package feedback

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/pkg/logger"
	"cortex-analyst-be/internal/repository/specification"
	"cortex-analyst-be/internal/repository/unitofwork"
	"cortex-analyst-be/pkg/apperror"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultKeyQuestionLimit     = 6
	DefaultPopularQuestionLimit = 4
)

type Options struct {
	SharedUsername string
	CacheTTL       time.Duration
}

// Store reads and writes bookmarks and votes, and ranks popular questions from the usage logs.
// Key and popular question lists are cached per app; bookmark writes on the shared pool drop the cache.
type Store struct {
	uowFactory     unitofwork.RepositoryFactory
	cache          *cache.Cache
	sharedUsername string
	logger         logger.ILogger
}

func NewStore(uowFactory unitofwork.RepositoryFactory, log logger.ILogger, opts Options) *Store {
	if opts.SharedUsername == "" {
		opts.SharedUsername = entity.SharedUsername
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	return &Store{
		uowFactory:     uowFactory,
		cache:          cache.New(opts.CacheTTL, 2*opts.CacheTTL),
		sharedUsername: opts.SharedUsername,
		logger:         log,
	}
}

// SharedUsername is the owner of the key question pool
func (s *Store) SharedUsername() string {
	return s.sharedUsername
}

// ValidateVote rejects anything but +1 and -1
func ValidateVote(value int) error {
	if value != 1 && value != -1 {
		return apperror.ErrInvalidVote
	}
	return nil
}

// AddBookmark inserts a bookmark. Duplicates are not checked.
func (s *Store) AddBookmark(ctx context.Context, appId int, username, question, lang string) (*entity.Bookmark, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	bookmark := &entity.Bookmark{
		AppId:    appId,
		Username: username,
		Question: question,
		Lang:     lang,
	}
	if err := uow.BookmarkRepository().Create(ctx, bookmark); err != nil {
		s.logFailure("add bookmark", err, appId, username)
		return nil, apperror.Persistence("add bookmark", err)
	}
	s.afterBookmarkWrite(appId, username)
	return bookmark, nil
}

// ListBookmarks returns the bookmarks of one user, most recently updated first
func (s *Store) ListBookmarks(ctx context.Context, appId int, username string) ([]*entity.Bookmark, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	bookmarks, err := uow.BookmarkRepository().FindAll(ctx,
		specification.ByAppID{AppID: appId},
		specification.BookmarkOwnedBy{Username: username},
		specification.MostRecentlyUpdated{},
	)
	if err != nil {
		s.logFailure("list bookmarks", err, appId, username)
		return nil, apperror.Persistence("list bookmarks", err)
	}
	return bookmarks, nil
}

// ListSharedKeyQuestions returns the questions of the shared pool, most recently updated first
func (s *Store) ListSharedKeyQuestions(ctx context.Context, appId int, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultKeyQuestionLimit
	}
	cacheKey := fmt.Sprintf("key:%d:%d", appId, limit)
	if x, found := s.cache.Get(cacheKey); found {
		return x.([]string), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	bookmarks, err := uow.BookmarkRepository().FindAll(ctx,
		specification.ByAppID{AppID: appId},
		specification.BookmarkOwnedBy{Username: s.sharedUsername},
		specification.MostRecentlyUpdated{},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		s.logFailure("list key questions", err, appId, s.sharedUsername)
		return nil, apperror.Persistence("list key questions", err)
	}

	questions := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		questions[i] = b.Question
	}
	s.cache.Set(cacheKey, questions, cache.DefaultExpiration)
	return questions, nil
}

// UpdateBookmark rewrites every bookmark matching (appId, username, oldQuestion).
// Zero or several rows may match; the affected count is returned.
func (s *Store) UpdateBookmark(ctx context.Context, appId int, username, oldQuestion, newText string) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	affected, err := uow.BookmarkRepository().UpdateQuestion(ctx, newText,
		specification.ByAppID{AppID: appId},
		specification.BookmarkOwnedBy{Username: username},
		specification.ByQuestion{Question: oldQuestion},
	)
	if err != nil {
		s.logFailure("update bookmark", err, appId, username)
		return 0, apperror.Persistence("update bookmark", err)
	}
	s.afterBookmarkWrite(appId, username)
	return affected, nil
}

// UpdateBookmarkByID rewrites one bookmark owned by username
func (s *Store) UpdateBookmarkByID(ctx context.Context, id int64, appId int, username, newText string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	affected, err := uow.BookmarkRepository().UpdateQuestion(ctx, newText,
		specification.ByBookmarkID{ID: id},
		specification.ByAppID{AppID: appId},
		specification.BookmarkOwnedBy{Username: username},
	)
	if err != nil {
		s.logFailure("update bookmark", err, appId, username)
		return apperror.Persistence("update bookmark", err)
	}
	if affected == 0 {
		return &apperror.NotFoundError{Resource: "bookmark", Key: strconv.FormatInt(id, 10)}
	}
	s.afterBookmarkWrite(appId, username)
	return nil
}

// DeleteBookmark removes every bookmark matching (appId, username, question)
func (s *Store) DeleteBookmark(ctx context.Context, appId int, username, question string) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	affected, err := uow.BookmarkRepository().DeleteWhere(ctx,
		specification.ByAppID{AppID: appId},
		specification.BookmarkOwnedBy{Username: username},
		specification.ByQuestion{Question: question},
	)
	if err != nil {
		s.logFailure("delete bookmark", err, appId, username)
		return 0, apperror.Persistence("delete bookmark", err)
	}
	s.afterBookmarkWrite(appId, username)
	return affected, nil
}

// DeleteBookmarkByID removes one bookmark owned by username
func (s *Store) DeleteBookmarkByID(ctx context.Context, id int64, appId int, username string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	affected, err := uow.BookmarkRepository().DeleteWhere(ctx,
		specification.ByBookmarkID{ID: id},
		specification.ByAppID{AppID: appId},
		specification.BookmarkOwnedBy{Username: username},
	)
	if err != nil {
		s.logFailure("delete bookmark", err, appId, username)
		return apperror.Persistence("delete bookmark", err)
	}
	if affected == 0 {
		return &apperror.NotFoundError{Resource: "bookmark", Key: strconv.FormatInt(id, 10)}
	}
	s.afterBookmarkWrite(appId, username)
	return nil
}

// IsBookmarked reports whether username already saved question for the app
func (s *Store) IsBookmarked(ctx context.Context, appId int, username, question string) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.BookmarkRepository().Count(ctx,
		specification.ByAppID{AppID: appId},
		specification.BookmarkOwnedBy{Username: username},
		specification.ByQuestion{Question: question},
	)
	if err != nil {
		return false, apperror.Persistence("count bookmarks", err)
	}
	return count > 0, nil
}

// RecordVote appends a vote. Invalid values never reach the store.
func (s *Store) RecordVote(ctx context.Context, username, questionText, modelRef string, value int) (*entity.Vote, error) {
	if err := ValidateVote(value); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	vote := &entity.Vote{
		Username:     username,
		QuestionText: questionText,
		ModelRef:     modelRef,
		Value:        value,
		CreatedAt:    time.Now(),
	}
	if err := uow.VoteRepository().Create(ctx, vote); err != nil {
		s.logger.Error("FEEDBACK", "Failed to record vote", map[string]interface{}{
			"error":     err.Error(),
			"username":  username,
			"model_ref": modelRef,
		})
		return nil, apperror.Persistence("record vote", err)
	}
	return vote, nil
}

// PopularQuestions ranks the questions asked on an app by frequency in the usage logs
func (s *Store) PopularQuestions(ctx context.Context, appId int, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultPopularQuestionLimit
	}
	cacheKey := fmt.Sprintf("popular:%d:%d", appId, limit)
	if x, found := s.cache.Get(cacheKey); found {
		return x.([]string), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	counts, err := uow.UsageLogRepository().CountByInputText(ctx, appId, limit)
	if err != nil {
		s.logFailure("popular questions", err, appId, "")
		return nil, apperror.Persistence("popular questions", err)
	}

	questions := make([]string, len(counts))
	for i, c := range counts {
		questions[i] = c.InputText
	}
	s.cache.Set(cacheKey, questions, cache.DefaultExpiration)
	return questions, nil
}

// InvalidateKeyQuestions drops the cached key questions of an app
func (s *Store) InvalidateKeyQuestions(appId int) {
	s.invalidate("key", appId)
}

// InvalidatePopularQuestions drops the cached popular questions of an app
func (s *Store) InvalidatePopularQuestions(appId int) {
	s.invalidate("popular", appId)
}

func (s *Store) invalidate(kind string, appId int) {
	prefix := fmt.Sprintf("%s:%d:", kind, appId)
	for k := range s.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			s.cache.Delete(k)
		}
	}
}

func (s *Store) afterBookmarkWrite(appId int, username string) {
	if username == s.sharedUsername {
		s.InvalidateKeyQuestions(appId)
	}
}

func (s *Store) logFailure(op string, err error, appId int, username string) {
	s.logger.Error("FEEDBACK", "Store operation failed", map[string]interface{}{
		"op":       op,
		"error":    err.Error(),
		"app_id":   appId,
		"username": username,
	})
}
