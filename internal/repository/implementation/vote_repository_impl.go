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

type VoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeedbackMapper
}

func NewVoteRepository(db *gorm.DB) contract.VoteRepository {
	return &VoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeedbackMapper(),
	}
}

func (r *VoteRepositoryImpl) Create(ctx context.Context, vote *entity.Vote) error {
	m := r.mapper.VoteToModel(vote)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*vote = *r.mapper.VoteToEntity(m)
	return nil
}

func (r *VoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Vote, error) {
	var models []*model.Vote
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Vote, len(models))
	for i, m := range models {
		entities[i] = r.mapper.VoteToEntity(m)
	}
	return entities, nil
}

