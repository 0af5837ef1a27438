package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"cortex-analyst-be/internal/model"
	"cortex-analyst-be/internal/repository/unitofwork"
	"cortex-analyst-be/internal/testutil"
	"cortex-analyst-be/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	sales := testutil.SeedApp(t, db, "sales", "revenue.yaml", "churn.yaml")
	hr := testutil.SeedApp(t, db, "hr")
	require.NoError(t, db.Create(&model.SemanticModel{AppId: sales.Id, Name: "old", File: "old.yaml", Active: false}).Error)
	require.NoError(t, db.Model(&model.App{}).Where("app_id = ?", hr.Id).Update("app_active", false).Error)

	reg := NewRegistry(unitofwork.NewRepositoryFactory(db), time.Minute)

	apps, err := reg.ActiveApps(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "sales", apps[0].Name)

	app, err := reg.App(ctx, sales.Id)
	require.NoError(t, err)
	assert.Equal(t, "CORTEX_DB", app.Database)

	var notFound *apperror.NotFoundError
	_, err = reg.App(ctx, hr.Id)
	assert.True(t, errors.As(err, &notFound))

	models, err := reg.ActiveModels(ctx, sales.Id)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "revenue.yaml", models[0].File)
	assert.Equal(t, "churn.yaml", models[1].File)

	none, err := reg.ActiveModels(ctx, hr.Id)
	require.NoError(t, err)
	assert.Empty(t, none)
}
