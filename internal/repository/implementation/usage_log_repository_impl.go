package implementation

import (
	"context"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/mapper"
	"cortex-analyst-be/internal/model"
	"cortex-analyst-be/internal/repository/contract"
	"cortex-analyst-be/internal/repository/specification"

	"gorm.io/gorm"
)

type UsageLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeedbackMapper
}

func NewUsageLogRepository(db *gorm.DB) contract.UsageLogRepository {
	return &UsageLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeedbackMapper(),
	}
}

func (r *UsageLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UsageLogRepositoryImpl) Create(ctx context.Context, log *entity.UsageLog) error {
	m := r.mapper.UsageLogToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.UsageLogToEntity(m)
	return nil
}

func (r *UsageLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageLog, error) {
	var models []*model.UsageLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.UsageLog, len(models))
	for i, m := range models {
		entities[i] = r.mapper.UsageLogToEntity(m)
	}
	return entities, nil
}

func (r *UsageLogRepositoryImpl) CountByInputText(ctx context.Context, appId int, limit int) ([]*entity.QuestionCount, error) {
	var rows []struct {
		InputText     string
		QuestionCount int64
	}
	query := r.db.WithContext(ctx).Model(&model.UsageLog{}).
		Select("input_text, COUNT(*) AS question_count").
		Where("app_id = ?", appId).
		Group("input_text").
		Order("question_count DESC").
		Order("input_text ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*entity.QuestionCount, len(rows))
	for i, row := range rows {
		result[i] = &entity.QuestionCount{InputText: row.InputText, Count: row.QuestionCount}
	}
	return result, nil
}
