package repository

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lorraynemfg/ledger-api/internal/models"
	ledgerredis "github.com/lorraynemfg/ledger-api/internal/redis"
)

const transactionViewKeyPrefix = "transaction:view:"

// TransactionReadRepository handles all read operations for transactions.
// Cache keys embed the owning account id, so a hit can never hand one
// account another account's transaction.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *ledgerredis.ViewCache[models.TransactionView]
}

func NewTransactionReadRepository(db *sql.DB, redisClient *goredis.Client) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:    db,
		cache: ledgerredis.NewViewCache[models.TransactionView](redisClient, 0),
	}
}

func transactionViewKey(accountID, transactionID int64) string {
	return fmt.Sprintf("%s%d:%d", transactionViewKeyPrefix, accountID, transactionID)
}

// GetByID returns a TransactionView scoped to the owning account, attempting
// Redis first, then PostgreSQL.
func (r *TransactionReadRepository) GetByID(ctx context.Context, transactionID, accountID int64) (*models.TransactionView, error) {
	if view, ok := r.cache.Get(ctx, transactionViewKey(accountID, transactionID)); ok {
		return view, nil
	}

	// Fallback: PostgreSQL — the account_id filter is the ownership check.
	query := `
		SELECT id, account_id, amount, payment_method, status, card_number,
		       card_name, card_expiration_date, card_cvv, client_name,
		       client_email, bar_code, paid_at, created_at
		FROM transactions
		WHERE id = $1 AND account_id = $2
	`
	var view models.TransactionView
	pgErr := r.db.QueryRow(query, transactionID, accountID).Scan(
		&view.ID, &view.AccountID, &view.Amount, &view.PaymentMethod, &view.Status,
		&view.CardNumber, &view.CardName, &view.CardExpirationDate, &view.CardCVV,
		&view.ClientName, &view.ClientEmail, &view.BarCode, &view.PaidAt, &view.CreatedAt,
	)
	if pgErr == sql.ErrNoRows {
		return nil, models.ErrTransactionNotFound
	}
	if pgErr != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", pgErr)
	}

	// Warm the cache
	r.CacheTransactionView(ctx, &view)
	return &view, nil
}

// CacheTransactionView stores the read model for a transaction in Redis.
// Called by the command service after every lifecycle change.
func (r *TransactionReadRepository) CacheTransactionView(ctx context.Context, view *models.TransactionView) {
	r.cache.Set(ctx, transactionViewKey(view.AccountID, view.ID), view)
}
