package unitofwork

import (
	"context"

	"cortex-analyst-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AppRepository() contract.AppRepository
	SemanticModelRepository() contract.SemanticModelRepository
	BookmarkRepository() contract.BookmarkRepository
	VoteRepository() contract.VoteRepository
	UsageLogRepository() contract.UsageLogRepository
}
