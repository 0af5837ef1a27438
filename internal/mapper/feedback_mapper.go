package mapper

import (
	"encoding/json"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/model"

	"gorm.io/datatypes"
)

type FeedbackMapper struct{}

func NewFeedbackMapper() *FeedbackMapper {
	return &FeedbackMapper{}
}

// Bookmark Mappers

func (m *FeedbackMapper) BookmarkToEntity(b *model.Bookmark) *entity.Bookmark {
	if b == nil {
		return nil
	}
	return &entity.Bookmark{
		Id:        b.Id,
		AppId:     b.AppId,
		Username:  b.Username,
		Question:  b.Question,
		Lang:      b.Lang,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (m *FeedbackMapper) BookmarkToModel(b *entity.Bookmark) *model.Bookmark {
	if b == nil {
		return nil
	}
	return &model.Bookmark{
		Id:        b.Id,
		AppId:     b.AppId,
		Username:  b.Username,
		Question:  b.Question,
		Lang:      b.Lang,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (m *FeedbackMapper) BookmarksToEntities(models []*model.Bookmark) []*entity.Bookmark {
	entities := make([]*entity.Bookmark, len(models))
	for i, b := range models {
		entities[i] = m.BookmarkToEntity(b)
	}
	return entities
}

// Vote Mappers

func (m *FeedbackMapper) VoteToEntity(v *model.Vote) *entity.Vote {
	if v == nil {
		return nil
	}
	return &entity.Vote{
		Id:           v.Id,
		Username:     v.Username,
		QuestionText: v.QuestionText,
		ModelRef:     v.YamlFile,
		Value:        v.Value,
		CreatedAt:    v.CreatedAt,
	}
}

func (m *FeedbackMapper) VoteToModel(v *entity.Vote) *model.Vote {
	if v == nil {
		return nil
	}
	return &model.Vote{
		Id:           v.Id,
		Username:     v.Username,
		QuestionText: v.QuestionText,
		YamlFile:     v.ModelRef,
		Value:        v.Value,
		CreatedAt:    v.CreatedAt,
	}
}

// Usage Log Mappers

func (m *FeedbackMapper) UsageLogToEntity(l *model.UsageLog) *entity.UsageLog {
	if l == nil {
		return nil
	}
	return &entity.UsageLog{
		Id:               l.Id,
		Timestamp:        l.DateTime,
		Username:         l.Username,
		AppId:            l.AppId,
		AppName:          l.AppName,
		ModelRef:         l.YamlFile,
		InputText:        l.InputText,
		OutputJson:       json.RawMessage(l.OutputJson),
		ElapsedTimeMs:    l.ElapsedTime,
		ResolutionTimeMs: l.ResolutionTime,
	}
}

func (m *FeedbackMapper) UsageLogToModel(l *entity.UsageLog) *model.UsageLog {
	if l == nil {
		return nil
	}
	return &model.UsageLog{
		Id:             l.Id,
		DateTime:       l.Timestamp,
		Username:       l.Username,
		AppName:        l.AppName,
		AppId:          l.AppId,
		YamlFile:       l.ModelRef,
		InputText:      l.InputText,
		OutputJson:     datatypes.JSON(l.OutputJson),
		ElapsedTime:    l.ElapsedTimeMs,
		ResolutionTime: l.ResolutionTimeMs,
	}
}
