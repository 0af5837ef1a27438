package implementation

import (
	"context"
	"errors"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/mapper"
	"cortex-analyst-be/internal/model"
	"cortex-analyst-be/internal/repository/contract"
	"cortex-analyst-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AppRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RegistryMapper
}

func NewAppRepository(db *gorm.DB) contract.AppRepository {
	return &AppRepositoryImpl{
		db:     db,
		mapper: mapper.NewRegistryMapper(),
	}
}

func (r *AppRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AppRepositoryImpl) Create(ctx context.Context, app *entity.App) error {
	m := r.mapper.AppToModel(app)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*app = *r.mapper.AppToEntity(m)
	return nil
}

func (r *AppRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.App, error) {
	var m model.App
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AppToEntity(&m), nil
}

func (r *AppRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.App, error) {
	var models []*model.App
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.App, len(models))
	for i, m := range models {
		entities[i] = r.mapper.AppToEntity(m)
	}
	return entities, nil
}

type SemanticModelRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RegistryMapper
}

func NewSemanticModelRepository(db *gorm.DB) contract.SemanticModelRepository {
	return &SemanticModelRepositoryImpl{
		db:     db,
		mapper: mapper.NewRegistryMapper(),
	}
}

func (r *SemanticModelRepositoryImpl) Create(ctx context.Context, sm *entity.SemanticModel) error {
	m := r.mapper.SemanticModelToModel(sm)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*sm = *r.mapper.SemanticModelToEntity(m)
	return nil
}

func (r *SemanticModelRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SemanticModel, error) {
	var models []*model.SemanticModel
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SemanticModel, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SemanticModelToEntity(m)
	}
	return entities, nil
}
