package registry

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/repository/specification"
	"cortex-analyst-be/internal/repository/unitofwork"
	"cortex-analyst-be/pkg/apperror"

	"github.com/patrickmn/go-cache"
)

// Registry reads app configurations and their semantic models.
// Rows are read-only here and cached for a short time since every rerun needs them.
type Registry struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *cache.Cache
}

func NewRegistry(uowFactory unitofwork.RepositoryFactory, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Registry{
		uowFactory: uowFactory,
		cache:      cache.New(ttl, 2*ttl),
	}
}

// ActiveApps lists the active apps ordered by id
func (r *Registry) ActiveApps(ctx context.Context) ([]*entity.App, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	apps, err := uow.AppRepository().FindAll(ctx,
		specification.ActiveApps{},
		specification.OrderBy{Field: "app_id"},
	)
	if err != nil {
		return nil, apperror.Persistence("list apps", err)
	}
	return apps, nil
}

// App loads one active app. A missing or inactive app is a *apperror.NotFoundError.
func (r *Registry) App(ctx context.Context, appId int) (*entity.App, error) {
	cacheKey := fmt.Sprintf("app:%d", appId)
	if x, found := r.cache.Get(cacheKey); found {
		return x.(*entity.App), nil
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	app, err := uow.AppRepository().FindOne(ctx,
		specification.ByAppID{AppID: appId},
		specification.ActiveApps{},
	)
	if err != nil {
		return nil, apperror.Persistence("load app", err)
	}
	if app == nil {
		return nil, &apperror.NotFoundError{Resource: "app", Key: strconv.Itoa(appId)}
	}

	r.cache.Set(cacheKey, app, cache.DefaultExpiration)
	return app, nil
}

// ActiveModels lists the selectable semantic models of an app in registration order
func (r *Registry) ActiveModels(ctx context.Context, appId int) ([]entity.SemanticModel, error) {
	cacheKey := fmt.Sprintf("models:%d", appId)
	if x, found := r.cache.Get(cacheKey); found {
		return x.([]entity.SemanticModel), nil
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	models, err := uow.SemanticModelRepository().FindAll(ctx,
		specification.ByAppID{AppID: appId},
		specification.ActiveModels{},
		specification.OrderBy{Field: "model_id"},
	)
	if err != nil {
		return nil, apperror.Persistence("list semantic models", err)
	}

	out := make([]entity.SemanticModel, len(models))
	for i, m := range models {
		out[i] = *m
	}
	r.cache.Set(cacheKey, out, cache.DefaultExpiration)
	return out, nil
}
