package service

import (
	"context"

	"cortex-analyst-be/internal/dto"
	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/pkg/orchestrator"
)

type IFeedbackService interface {
	Bookmarks(ctx context.Context, username string, appId int) ([]*dto.BookmarkResponse, error)
	KeyQuestions(ctx context.Context, appId int) (*dto.QuestionsResponse, error)
	PopularQuestions(ctx context.Context, appId int) (*dto.QuestionsResponse, error)
}

type AppLookup interface {
	App(ctx context.Context, appId int) (*entity.App, error)
}

type feedbackService struct {
	apps         AppLookup
	store        orchestrator.FeedbackStore
	keyLimit     int
	popularLimit int
}

func NewFeedbackService(apps AppLookup, store orchestrator.FeedbackStore, keyLimit, popularLimit int) IFeedbackService {
	return &feedbackService{
		apps:         apps,
		store:        store,
		keyLimit:     keyLimit,
		popularLimit: popularLimit,
	}
}

func (s *feedbackService) Bookmarks(ctx context.Context, username string, appId int) ([]*dto.BookmarkResponse, error) {
	if username == "" {
		return nil, orchestrator.ErrMissingIdentity
	}
	if _, err := s.apps.App(ctx, appId); err != nil {
		return nil, err
	}

	bookmarks, err := s.store.ListBookmarks(ctx, appId, username)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.BookmarkResponse, 0, len(bookmarks))
	for _, b := range bookmarks {
		result = append(result, &dto.BookmarkResponse{
			Id:        b.Id,
			Question:  b.Question,
			Lang:      b.Lang,
			UpdatedAt: b.UpdatedAt,
		})
	}
	return result, nil
}

func (s *feedbackService) KeyQuestions(ctx context.Context, appId int) (*dto.QuestionsResponse, error) {
	if _, err := s.apps.App(ctx, appId); err != nil {
		return nil, err
	}
	questions, err := s.store.ListSharedKeyQuestions(ctx, appId, s.keyLimit)
	if err != nil {
		return nil, err
	}
	return &dto.QuestionsResponse{Questions: nonNil(questions)}, nil
}

func (s *feedbackService) PopularQuestions(ctx context.Context, appId int) (*dto.QuestionsResponse, error) {
	if _, err := s.apps.App(ctx, appId); err != nil {
		return nil, err
	}
	questions, err := s.store.PopularQuestions(ctx, appId, s.popularLimit)
	if err != nil {
		return nil, err
	}
	return &dto.QuestionsResponse{Questions: nonNil(questions)}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
