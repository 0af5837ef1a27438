package contract

import (
	"context"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/repository/specification"
)

type UsageLogRepository interface {
	Create(ctx context.Context, log *entity.UsageLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageLog, error)
	// CountByInputText ranks the questions of an app by how often they were asked
	CountByInputText(ctx context.Context, appId int, limit int) ([]*entity.QuestionCount, error)
}
