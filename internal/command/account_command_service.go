package command

import (
	"context"
	"log"

	"github.com/lorraynemfg/ledger-api/internal/cqrs"
	"github.com/lorraynemfg/ledger-api/internal/events"
	"github.com/lorraynemfg/ledger-api/internal/models"
	"github.com/lorraynemfg/ledger-api/internal/repository"
	"github.com/lorraynemfg/ledger-api/internal/utils"
)

// AccountCommandService writes account state and keeps the read model in sync.
type AccountCommandService struct {
	writeRepo *repository.AccountWriteRepository
	readRepo  *repository.AccountReadRepository
	publisher *events.Publisher
}

func NewAccountCommandService(
	writeRepo *repository.AccountWriteRepository,
	readRepo *repository.AccountReadRepository,
	publisher *events.Publisher,
) *AccountCommandService {
	return &AccountCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		publisher: publisher,
	}
}

// Register creates an account with a fresh api secret and a zero balance.
func (s *AccountCommandService) Register(ctx context.Context, cmd cqrs.RegisterAccountCommand) (*models.Account, error) {
	exists, err := s.writeRepo.EmailExists(cmd.Email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrDuplicateEmail
	}

	account := &models.Account{
		Username:  cmd.Username,
		Email:     cmd.Email,
		APISecret: utils.GenerateSecret(),
		Balance:   0,
	}
	// The unique index turns a register/register race into ErrDuplicateEmail.
	if err := s.writeRepo.Create(account); err != nil {
		return nil, err
	}

	s.readRepo.CacheAccountView(ctx, accountToView(account))
	s.publish(ctx, events.AccountCreated, events.AccountCreatedEvent{
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
	})
	return account, nil
}

// Update overwrites the account's username and email. The duplicate-email
// check skips the caller's own row.
func (s *AccountCommandService) Update(ctx context.Context, cmd cqrs.UpdateAccountCommand) error {
	exists, err := s.writeRepo.EmailExists(cmd.Email, cmd.AccountID)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrEmailInUse
	}

	if err := s.writeRepo.UpdateProfile(cmd.AccountID, cmd.Username, cmd.Email); err != nil {
		return err
	}

	if _, err := s.readRepo.RefreshByID(ctx, cmd.AccountID); err != nil {
		log.Printf("Failed to refresh account view %d: %v", cmd.AccountID, err)
	}
	s.publish(ctx, events.AccountUpdated, events.AccountUpdatedEvent{
		AccountID: cmd.AccountID,
		Username:  cmd.Username,
		Email:     cmd.Email,
	})
	return nil
}

// Withdraw debits the account and appends the audit record atomically.
func (s *AccountCommandService) Withdraw(ctx context.Context, cmd cqrs.WithdrawCommand) error {
	newBalance, err := s.writeRepo.Withdraw(ctx, cmd.AccountID, cmd.Amount)
	if err != nil {
		return err
	}

	if _, err := s.readRepo.RefreshByID(ctx, cmd.AccountID); err != nil {
		log.Printf("Failed to refresh account view %d: %v", cmd.AccountID, err)
	}
	s.publish(ctx, events.WithdrawalCreated, events.WithdrawalCreatedEvent{
		AccountID: cmd.AccountID,
		Amount:    cmd.Amount,
	})
	s.publish(ctx, events.BalanceUpdated, events.BalanceUpdatedEvent{
		AccountID:  cmd.AccountID,
		NewBalance: newBalance,
		Change:     -cmd.Amount,
	})
	return nil
}

// Transfer moves funds between two accounts atomically.
func (s *AccountCommandService) Transfer(ctx context.Context, cmd cqrs.TransferCommand) error {
	fromBalance, toBalance, err := s.writeRepo.Transfer(ctx, cmd.FromAccountID, cmd.ToAccountID, cmd.Amount)
	if err != nil {
		return err
	}

	for _, id := range []int64{cmd.FromAccountID, cmd.ToAccountID} {
		if _, err := s.readRepo.RefreshByID(ctx, id); err != nil {
			log.Printf("Failed to refresh account view %d: %v", id, err)
		}
	}
	s.publish(ctx, events.TransferCreated, events.TransferCreatedEvent{
		FromAccountID: cmd.FromAccountID,
		ToAccountID:   cmd.ToAccountID,
		Amount:        cmd.Amount,
	})
	s.publish(ctx, events.BalanceUpdated, events.BalanceUpdatedEvent{
		AccountID:  cmd.FromAccountID,
		NewBalance: fromBalance,
		Change:     -cmd.Amount,
	})
	if cmd.ToAccountID != cmd.FromAccountID {
		s.publish(ctx, events.BalanceUpdated, events.BalanceUpdatedEvent{
			AccountID:  cmd.ToAccountID,
			NewBalance: toBalance,
			Change:     cmd.Amount,
		})
	}
	return nil
}

// HandleLedgerEvent re-warms the account view cache when a balance event
// arrives. The refresh reads current PostgreSQL state, so replays and
// duplicate deliveries are harmless.
func (s *AccountCommandService) HandleLedgerEvent(ctx context.Context, event events.Event) error {
	if event.Type != events.BalanceUpdated {
		return nil
	}
	var data events.BalanceUpdatedEvent
	if err := events.DecodeData(event, &data); err != nil {
		return err
	}
	if _, err := s.readRepo.RefreshByID(ctx, data.AccountID); err != nil {
		return err
	}
	return nil
}

// publish sends a domain event; failures are logged, never surfaced — the
// write store already committed.
func (s *AccountCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}

// accountToView converts the PostgreSQL write model to the Redis read view model.
func accountToView(a *models.Account) *models.AccountView {
	return &models.AccountView{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		APISecret: a.APISecret,
		Balance:   a.Balance,
	}
}
