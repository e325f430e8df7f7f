package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/lorraynemfg/ledger-api/internal/models"
)

// AccountWriteRepository handles all state-mutating operations for accounts.
// It operates exclusively against the PostgreSQL write store (source of truth).
//
// Every balance mutation runs inside a single transaction with the affected
// account rows locked via SELECT ... FOR UPDATE, so that a concurrent
// operation can never observe the balance between the check and the write.
type AccountWriteRepository struct {
	db *sql.DB
}

func NewAccountWriteRepository(db *sql.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

func (r *AccountWriteRepository) Create(account *models.Account) error {
	query := `
		INSERT INTO accounts (username, email, api_secret, balance)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(query,
		account.Username, account.Email, account.APISecret, account.Balance,
	).Scan(&account.ID)
	if isUniqueViolation(err) {
		return models.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountWriteRepository) GetByID(id int64) (*models.Account, error) {
	query := `
		SELECT id, username, email, api_secret, balance
		FROM accounts
		WHERE id = $1
	`
	var account models.Account
	err := r.db.QueryRow(query, id).Scan(
		&account.ID, &account.Username, &account.Email,
		&account.APISecret, &account.Balance,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// EmailExists reports whether another account already uses email. excludeID
// skips the caller's own row so an account can keep its current address on
// update; pass 0 at registration.
func (r *AccountWriteRepository) EmailExists(email string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1 AND id <> $2)`
	var exists bool
	if err := r.db.QueryRow(query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (r *AccountWriteRepository) UpdateProfile(id int64, username, email string) error {
	query := `UPDATE accounts SET username = $2, email = $3 WHERE id = $1`
	result, err := r.db.Exec(query, id, username, email)
	if isUniqueViolation(err) {
		return models.ErrEmailInUse
	}
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

// Withdraw atomically debits amount from the account and appends the audit
// record. Returns the committed balance.
func (r *AccountWriteRepository) Withdraw(ctx context.Context, accountID, amount int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin withdraw tx: %w", err)
	}
	defer tx.Rollback()

	balance, err := lockBalance(tx, accountID)
	if err != nil {
		return 0, err
	}
	if balance < amount {
		return 0, models.ErrInsufficientFunds
	}

	newBalance := balance - amount
	if _, err := tx.Exec(`UPDATE accounts SET balance = $2 WHERE id = $1`, accountID, newBalance); err != nil {
		return 0, fmt.Errorf("failed to debit account: %w", err)
	}
	audit := models.Withdrawal{AccountID: accountID, Amount: amount}
	if _, err := tx.Exec(`INSERT INTO withdrawals (account_id, amount) VALUES ($1, $2)`, audit.AccountID, audit.Amount); err != nil {
		return 0, fmt.Errorf("failed to record withdrawal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit withdraw: %w", err)
	}
	return newBalance, nil
}

// Transfer atomically moves amount between two accounts and appends the
// audit record. Rows are locked in ascending id order so concurrent opposed
// transfers cannot deadlock. Returns the committed balances of the source
// and destination accounts.
func (r *AccountWriteRepository) Transfer(ctx context.Context, fromID, toID, amount int64) (int64, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transfer tx: %w", err)
	}
	defer tx.Rollback()

	first, second := fromID, toID
	if second < first {
		first, second = second, first
	}

	balances := make(map[int64]int64, 2)
	for _, id := range []int64{first, second} {
		if _, seen := balances[id]; seen {
			continue
		}
		balance, err := lockBalance(tx, id)
		if err == models.ErrAccountNotFound && id == toID {
			return 0, 0, models.ErrDestinationNotFound
		}
		if err != nil {
			return 0, 0, err
		}
		balances[id] = balance
	}

	if balances[fromID] < amount {
		return 0, 0, models.ErrInsufficientFunds
	}

	fromBalance := balances[fromID]
	toBalance := balances[toID]
	if fromID != toID {
		fromBalance -= amount
		toBalance += amount
		if _, err := tx.Exec(`UPDATE accounts SET balance = $2 WHERE id = $1`, fromID, fromBalance); err != nil {
			return 0, 0, fmt.Errorf("failed to debit source account: %w", err)
		}
		if _, err := tx.Exec(`UPDATE accounts SET balance = $2 WHERE id = $1`, toID, toBalance); err != nil {
			return 0, 0, fmt.Errorf("failed to credit destination account: %w", err)
		}
	}

	audit := models.Transfer{FromAccountID: fromID, ToAccountID: toID, Amount: amount}
	query := `INSERT INTO transfers (from_account_id, to_account_id, amount) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(query, audit.FromAccountID, audit.ToAccountID, audit.Amount); err != nil {
		return 0, 0, fmt.Errorf("failed to record transfer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transfer: %w", err)
	}
	return fromBalance, toBalance, nil
}

// lockBalance reads an account's balance under a row lock held until the
// surrounding transaction ends.
func lockBalance(tx *sql.Tx, accountID int64) (int64, error) {
	var balance int64
	err := tx.QueryRow(`SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`, accountID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, models.ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock account %d: %w", accountID, err)
	}
	return balance, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
