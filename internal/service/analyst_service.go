package service

import (
	"context"
	"strings"

	"cortex-analyst-be/internal/dto"
	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/pkg/content"
	"cortex-analyst-be/pkg/orchestrator"
)

type IAnalystService interface {
	ListApps(ctx context.Context) ([]*dto.AppResponse, error)
	Run(ctx context.Context, username string, appId int, req *dto.RunRequest) (*orchestrator.View, error)
	OpenResult(ctx context.Context, username string, appId, messageIndex, blockIndex int) (content.RowCursor, error)
}

type AppLister interface {
	ActiveApps(ctx context.Context) ([]*entity.App, error)
}

type ResultStreamer interface {
	Stream(ctx context.Context, statement string) (content.RowCursor, error)
}

type analystService struct {
	apps         AppLister
	orchestrator *orchestrator.Orchestrator
	streamer     ResultStreamer
}

func NewAnalystService(apps AppLister, orch *orchestrator.Orchestrator, streamer ResultStreamer) IAnalystService {
	return &analystService{
		apps:         apps,
		orchestrator: orch,
		streamer:     streamer,
	}
}

func (s *analystService) ListApps(ctx context.Context) ([]*dto.AppResponse, error) {
	apps, err := s.apps.ActiveApps(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.AppResponse, 0, len(apps))
	for _, app := range apps {
		result = append(result, &dto.AppResponse{
			Id:      app.Id,
			Name:    app.Name,
			LogoUrl: app.LogoUrl,
			Url:     app.Url,
		})
	}
	return result, nil
}

func (s *analystService) Run(ctx context.Context, username string, appId int, req *dto.RunRequest) (*orchestrator.View, error) {
	return s.orchestrator.Run(ctx, orchestrator.RunRequest{
		Username: username,
		AppID:    appId,
		Action:   ToAction(req),
	})
}

// OpenResult re-executes the statement of a rendered SQL block. The cursor is single-pass.
func (s *analystService) OpenResult(ctx context.Context, username string, appId, messageIndex, blockIndex int) (content.RowCursor, error) {
	if strings.TrimSpace(username) == "" {
		return nil, orchestrator.ErrMissingIdentity
	}
	statement, err := s.orchestrator.Statement(ctx, username, appId, messageIndex, blockIndex)
	if err != nil {
		return nil, err
	}
	return s.streamer.Stream(ctx, statement)
}

// ToAction maps the wire request onto an orchestrator action
func ToAction(req *dto.RunRequest) orchestrator.Action {
	text := req.Text
	if req.Prompt != "" {
		text = req.Prompt
	}
	return orchestrator.Action{
		Kind:         orchestrator.ActionKind(req.Action),
		Text:         text,
		ModelID:      req.ModelId,
		BookmarkID:   req.BookmarkId,
		MessageIndex: req.MessageIndex,
		Value:        req.Value,
		Lang:         req.Lang,
	}
}
