package contract

import (
	"context"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/repository/specification"
)

type VoteRepository interface {
	Create(ctx context.Context, vote *entity.Vote) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Vote, error)
}
