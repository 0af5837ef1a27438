package contract

import (
	"context"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/repository/specification"
)

type AppRepository interface {
	Create(ctx context.Context, app *entity.App) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.App, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.App, error)
}

type SemanticModelRepository interface {
	Create(ctx context.Context, m *entity.SemanticModel) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SemanticModel, error)
}
