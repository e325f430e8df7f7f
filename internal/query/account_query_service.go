package query

import (
	"context"

	"github.com/lorraynemfg/ledger-api/internal/cqrs"
	"github.com/lorraynemfg/ledger-api/internal/repository"
)

type AccountQueryService struct {
	readRepo *repository.AccountReadRepository
}

func NewAccountQueryService(readRepo *repository.AccountReadRepository) *AccountQueryService {
	return &AccountQueryService{readRepo: readRepo}
}

// GetBalance returns the account's current balance in minor units.
func (s *AccountQueryService) GetBalance(ctx context.Context, q cqrs.GetBalanceQuery) (int64, error) {
	view, err := s.readRepo.GetByID(ctx, q.AccountID)
	if err != nil {
		return 0, err
	}
	return view.Balance, nil
}
