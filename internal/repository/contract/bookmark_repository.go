package contract

import (
	"context"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/repository/specification"
)

type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *entity.Bookmark) error
	// UpdateQuestion rewrites the question of every row matching specs and returns the affected count
	UpdateQuestion(ctx context.Context, question string, specs ...specification.Specification) (int64, error)
	// DeleteWhere removes every row matching specs and returns the affected count
	DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Bookmark, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
