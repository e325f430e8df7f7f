package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lorraynemfg/ledger-api/internal/cqrs"
	"github.com/lorraynemfg/ledger-api/internal/events"
	"github.com/lorraynemfg/ledger-api/internal/models"
	"github.com/lorraynemfg/ledger-api/internal/repository"
	"github.com/lorraynemfg/ledger-api/internal/utils"
)

// TransactionCommandService drives the transaction lifecycle:
// creation (credit paid immediately, billet pending), payment simulation and
// cancellation with refund.
type TransactionCommandService struct {
	writeRepo *repository.TransactionWriteRepository
	readRepo  *repository.TransactionReadRepository
	accounts  *repository.AccountReadRepository
	publisher *events.Publisher
}

func NewTransactionCommandService(
	writeRepo *repository.TransactionWriteRepository,
	readRepo *repository.TransactionReadRepository,
	accounts *repository.AccountReadRepository,
	publisher *events.Publisher,
) *TransactionCommandService {
	return &TransactionCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		accounts:  accounts,
		publisher: publisher,
	}
}

// Create builds a transaction from the command. Credit transactions debit
// the account and land directly in the paid state; billet transactions are
// created pending with a bar code and have no balance effect until paid.
func (s *TransactionCommandService) Create(ctx context.Context, cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	now := time.Now().UTC()
	transaction := &models.Transaction{
		AccountID:     cmd.AccountID,
		Amount:        cmd.Amount,
		PaymentMethod: cmd.PaymentMethod,
		ClientName:    cmd.ClientName,
		ClientEmail:   cmd.ClientEmail,
		CreatedAt:     now,
	}

	switch cmd.PaymentMethod {
	case models.PaymentMethodCredit:
		transaction.Status = models.StatusPaid
		transaction.CardNumber = &cmd.CardNumber
		transaction.CardName = &cmd.CardName
		transaction.CardExpirationDate = &cmd.CardExpirationDate
		transaction.CardCVV = &cmd.CardCVV
		paidAt := now
		transaction.PaidAt = &paidAt

		newBalance, err := s.writeRepo.CreateCredit(ctx, transaction)
		if err != nil {
			return nil, err
		}
		s.refreshAccount(ctx, cmd.AccountID)
		s.publish(ctx, events.BalanceUpdated, events.BalanceUpdatedEvent{
			AccountID:  cmd.AccountID,
			NewBalance: newBalance,
			Change:     -cmd.Amount,
		})
	case models.PaymentMethodBillet:
		transaction.Status = models.StatusPending
		barCode := utils.GenerateBarCode()
		transaction.BarCode = &barCode

		if err := s.writeRepo.CreateBillet(transaction); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported payment method %q", cmd.PaymentMethod)
	}

	s.readRepo.CacheTransactionView(ctx, txToView(transaction))
	s.publish(ctx, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: transaction.ID,
		AccountID:     transaction.AccountID,
		Amount:        transaction.Amount,
		PaymentMethod: transaction.PaymentMethod,
		Status:        transaction.Status,
	})
	return transaction, nil
}

// Pay moves a pending transaction to paid and debits the owning account.
func (s *TransactionCommandService) Pay(ctx context.Context, cmd cqrs.PayTransactionCommand) error {
	transaction, newBalance, err := s.writeRepo.Pay(ctx, cmd.TransactionID, cmd.AccountID)
	if err != nil {
		return err
	}

	s.refreshAccount(ctx, cmd.AccountID)
	s.readRepo.CacheTransactionView(ctx, txToView(transaction))
	s.publish(ctx, events.TransactionPaid, events.TransactionPaidEvent{
		TransactionID: transaction.ID,
		AccountID:     transaction.AccountID,
		Amount:        transaction.Amount,
	})
	s.publish(ctx, events.BalanceUpdated, events.BalanceUpdatedEvent{
		AccountID:  cmd.AccountID,
		NewBalance: newBalance,
		Change:     -transaction.Amount,
	})
	return nil
}

// Cancel flips a transaction to canceled, refunding its amount when it had
// been paid.
func (s *TransactionCommandService) Cancel(ctx context.Context, cmd cqrs.CancelTransactionCommand) error {
	transaction, newBalance, refunded, err := s.writeRepo.Cancel(ctx, cmd.TransactionID, cmd.AccountID)
	if err != nil {
		return err
	}

	s.readRepo.CacheTransactionView(ctx, txToView(transaction))
	s.publish(ctx, events.TransactionCanceled, events.TransactionCanceledEvent{
		TransactionID: transaction.ID,
		AccountID:     transaction.AccountID,
		Amount:        transaction.Amount,
		Refunded:      refunded,
	})
	if refunded {
		s.refreshAccount(ctx, cmd.AccountID)
		s.publish(ctx, events.BalanceUpdated, events.BalanceUpdatedEvent{
			AccountID:  cmd.AccountID,
			NewBalance: newBalance,
			Change:     transaction.Amount,
		})
	}
	return nil
}

func (s *TransactionCommandService) refreshAccount(ctx context.Context, accountID int64) {
	if _, err := s.accounts.RefreshByID(ctx, accountID); err != nil {
		log.Printf("Failed to refresh account view %d: %v", accountID, err)
	}
}

func (s *TransactionCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}

// txToView converts the write model to the read view model.
func txToView(t *models.Transaction) *models.TransactionView {
	return &models.TransactionView{
		ID:                 t.ID,
		AccountID:          t.AccountID,
		Amount:             t.Amount,
		PaymentMethod:      t.PaymentMethod,
		Status:             t.Status,
		CardNumber:         t.CardNumber,
		CardName:           t.CardName,
		CardExpirationDate: t.CardExpirationDate,
		CardCVV:            t.CardCVV,
		ClientName:         t.ClientName,
		ClientEmail:        t.ClientEmail,
		BarCode:            t.BarCode,
		PaidAt:             t.PaidAt,
		CreatedAt:          t.CreatedAt,
	}
}
