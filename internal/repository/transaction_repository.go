package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lorraynemfg/ledger-api/internal/models"
)

// TransactionWriteRepository handles all state-mutating operations for
// transactions: creation and the pending -> paid / -> canceled transitions.
// Every transition that touches a balance locks both the transaction row and
// the owning account row inside one SQL transaction.
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

const insertTransactionQuery = `
	INSERT INTO transactions
		(account_id, amount, payment_method, status, card_number, card_name,
		 card_expiration_date, card_cvv, client_name, client_email, bar_code,
		 paid_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id
`

// CreateBillet inserts a pending billet transaction. No balance effect.
func (r *TransactionWriteRepository) CreateBillet(t *models.Transaction) error {
	err := r.db.QueryRow(insertTransactionQuery,
		t.AccountID, t.Amount, t.PaymentMethod, t.Status,
		t.CardNumber, t.CardName, t.CardExpirationDate, t.CardCVV,
		t.ClientName, t.ClientEmail, t.BarCode, t.PaidAt, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to create billet transaction: %w", err)
	}
	return nil
}

// CreateCredit inserts a credit transaction already in the paid state and
// debits the owning account, atomically. When the balance is insufficient no
// row is created. Returns the committed balance.
func (r *TransactionWriteRepository) CreateCredit(ctx context.Context, t *models.Transaction) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin credit tx: %w", err)
	}
	defer tx.Rollback()

	balance, err := lockBalance(tx, t.AccountID)
	if err != nil {
		return 0, err
	}
	if balance < t.Amount {
		return 0, models.ErrInsufficientFunds
	}

	newBalance := balance - t.Amount
	if _, err := tx.Exec(`UPDATE accounts SET balance = $2 WHERE id = $1`, t.AccountID, newBalance); err != nil {
		return 0, fmt.Errorf("failed to debit account: %w", err)
	}
	err = tx.QueryRow(insertTransactionQuery,
		t.AccountID, t.Amount, t.PaymentMethod, t.Status,
		t.CardNumber, t.CardName, t.CardExpirationDate, t.CardCVV,
		t.ClientName, t.ClientEmail, t.BarCode, t.PaidAt, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to create credit transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit credit transaction: %w", err)
	}
	return newBalance, nil
}

// Pay moves a pending transaction to paid and debits the owning account.
// The transaction row is locked first, then the account row; Cancel uses the
// same order so the two transitions cannot deadlock each other.
func (r *TransactionWriteRepository) Pay(ctx context.Context, transactionID, accountID int64) (*models.Transaction, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin pay tx: %w", err)
	}
	defer tx.Rollback()

	t, err := lockTransaction(tx, transactionID, accountID)
	if err != nil {
		return nil, 0, err
	}
	balance, err := lockBalance(tx, accountID)
	if err != nil {
		return nil, 0, err
	}
	if err := t.Payable(balance); err != nil {
		return nil, 0, err
	}

	paidAt := time.Now().UTC()
	if _, err := tx.Exec(`UPDATE transactions SET status = $2, paid_at = $3 WHERE id = $1`,
		t.ID, models.StatusPaid, paidAt); err != nil {
		return nil, 0, fmt.Errorf("failed to mark transaction paid: %w", err)
	}
	newBalance := balance - t.Amount
	if _, err := tx.Exec(`UPDATE accounts SET balance = $2 WHERE id = $1`, accountID, newBalance); err != nil {
		return nil, 0, fmt.Errorf("failed to debit account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit payment: %w", err)
	}
	t.Status = models.StatusPaid
	t.PaidAt = &paidAt
	return t, newBalance, nil
}

// Cancel flips a transaction to canceled. A pending transaction is a pure
// status flip; a paid transaction additionally refunds its amount to the
// owning account in the same SQL transaction (all-or-nothing). The second
// return value is the committed balance, the third reports whether a refund
// happened.
func (r *TransactionWriteRepository) Cancel(ctx context.Context, transactionID, accountID int64) (*models.Transaction, int64, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to begin cancel tx: %w", err)
	}
	defer tx.Rollback()

	t, err := lockTransaction(tx, transactionID, accountID)
	if err != nil {
		return nil, 0, false, err
	}
	if err := t.Cancelable(); err != nil {
		return nil, 0, false, err
	}

	balance, err := lockBalance(tx, accountID)
	if err != nil {
		return nil, 0, false, err
	}

	refunded := t.Status == models.StatusPaid
	newBalance := balance
	if refunded {
		newBalance = balance + t.Amount
		if _, err := tx.Exec(`UPDATE accounts SET balance = $2 WHERE id = $1`, accountID, newBalance); err != nil {
			return nil, 0, false, fmt.Errorf("failed to refund account: %w", err)
		}
	}
	if _, err := tx.Exec(`UPDATE transactions SET status = $2 WHERE id = $1`, t.ID, models.StatusCanceled); err != nil {
		return nil, 0, false, fmt.Errorf("failed to cancel transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, false, fmt.Errorf("failed to commit cancellation: %w", err)
	}
	t.Status = models.StatusCanceled
	return t, newBalance, refunded, nil
}

// lockTransaction reads a transaction under a row lock, always scoped by the
// owning account id so another account's transaction is indistinguishable
// from a missing one.
func lockTransaction(tx *sql.Tx, transactionID, accountID int64) (*models.Transaction, error) {
	query := `
		SELECT id, account_id, amount, payment_method, status, card_number,
		       card_name, card_expiration_date, card_cvv, client_name,
		       client_email, bar_code, paid_at, created_at
		FROM transactions
		WHERE id = $1 AND account_id = $2
		FOR UPDATE
	`
	var t models.Transaction
	err := tx.QueryRow(query, transactionID, accountID).Scan(
		&t.ID, &t.AccountID, &t.Amount, &t.PaymentMethod, &t.Status,
		&t.CardNumber, &t.CardName, &t.CardExpirationDate, &t.CardCVV,
		&t.ClientName, &t.ClientEmail, &t.BarCode, &t.PaidAt, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock transaction %d: %w", transactionID, err)
	}
	return &t, nil
}
