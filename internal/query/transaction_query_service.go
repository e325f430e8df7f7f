package query

import (
	"context"

	"github.com/lorraynemfg/ledger-api/internal/cqrs"
	"github.com/lorraynemfg/ledger-api/internal/models"
	"github.com/lorraynemfg/ledger-api/internal/repository"
)

type TransactionQueryService struct {
	readRepo *repository.TransactionReadRepository
}

func NewTransactionQueryService(readRepo *repository.TransactionReadRepository) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo}
}

// GetTransaction fetches one transaction scoped to the requesting account.
// A transaction owned by a different account comes back as not-found, never
// as someone else's data.
func (s *TransactionQueryService) GetTransaction(ctx context.Context, q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	return s.readRepo.GetByID(ctx, q.TransactionID, q.AccountID)
}
