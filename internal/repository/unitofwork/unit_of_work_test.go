package unitofwork

import (
	"context"
	"testing"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(name string) *entity.App {
	return &entity.App{Name: name, Active: true, Database: "DB", Schema: "PUBLIC", Stage: "MODELS"}
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	factory := NewRepositoryFactory(testutil.NewTestDB(t))

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.AppRepository().Create(ctx, newApp("discarded")))
	require.NoError(t, uow.Rollback())

	require.NoError(t, uow.Begin(ctx))
	app := newApp("kept")
	require.NoError(t, uow.AppRepository().Create(ctx, app))
	require.NoError(t, uow.SemanticModelRepository().Create(ctx, &entity.SemanticModel{AppId: app.Id, Name: "revenue", File: "revenue.yaml", Active: true}))
	require.NoError(t, uow.Commit())

	apps, err := factory.NewUnitOfWork(ctx).AppRepository().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "kept", apps[0].Name)
	assert.NotZero(t, apps[0].Id)
}

func TestUnitOfWork_TransactionMisuse(t *testing.T) {
	ctx := context.Background()
	uow := NewRepositoryFactory(testutil.NewTestDB(t)).NewUnitOfWork(ctx)

	assert.Error(t, uow.Commit())
	assert.Error(t, uow.Rollback())

	require.NoError(t, uow.Begin(ctx))
	assert.Error(t, uow.Begin(ctx))
	require.NoError(t, uow.Rollback())
}
