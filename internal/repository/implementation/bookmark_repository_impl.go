package implementation

import (
	"context"
	"time"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/mapper"
	"cortex-analyst-be/internal/model"
	"cortex-analyst-be/internal/repository/contract"
	"cortex-analyst-be/internal/repository/specification"

	"gorm.io/gorm"
)

type BookmarkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeedbackMapper
}

func NewBookmarkRepository(db *gorm.DB) contract.BookmarkRepository {
	return &BookmarkRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeedbackMapper(),
	}
}

func (r *BookmarkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BookmarkRepositoryImpl) Create(ctx context.Context, bookmark *entity.Bookmark) error {
	m := r.mapper.BookmarkToModel(bookmark)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*bookmark = *r.mapper.BookmarkToEntity(m)
	return nil
}

func (r *BookmarkRepositoryImpl) UpdateQuestion(ctx context.Context, question string, specs ...specification.Specification) (int64, error) {
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Bookmark{}), specs...)
	res := query.Updates(map[string]interface{}{
		"bk_question":   question,
		"bk_updated_at": time.Now(),
	})
	return res.RowsAffected, res.Error
}

func (r *BookmarkRepositoryImpl) DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error) {
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	res := query.Delete(&model.Bookmark{})
	return res.RowsAffected, res.Error
}

func (r *BookmarkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Bookmark, error) {
	var models []*model.Bookmark
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.BookmarksToEntities(models), nil
}

func (r *BookmarkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Bookmark{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
