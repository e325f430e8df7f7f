package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lorraynemfg/ledger-api/internal/models"
	ledgerredis "github.com/lorraynemfg/ledger-api/internal/redis"
)

const (
	accountViewKeyPrefix   = "account:view:"
	accountSecretKeyPrefix = "account:secret:"
)

// AccountReadRepository handles all read operations for accounts. Views are
// cached in Redis keyed by account id, with a secret -> id index so the auth
// middleware can resolve an api key without touching PostgreSQL on the hot
// path. Cold reads fall back to PostgreSQL and warm the cache.
type AccountReadRepository struct {
	db    *sql.DB
	cache *ledgerredis.ViewCache[models.AccountView]
	index *ledgerredis.KeyIndex
}

func NewAccountReadRepository(db *sql.DB, redisClient *goredis.Client) *AccountReadRepository {
	return &AccountReadRepository{
		db:    db,
		cache: ledgerredis.NewViewCache[models.AccountView](redisClient, 0),
		index: ledgerredis.NewKeyIndex(redisClient, 0),
	}
}

// GetByAPISecret resolves the account owning secret, Redis first.
func (r *AccountReadRepository) GetByAPISecret(ctx context.Context, secret string) (*models.AccountView, error) {
	if id := r.index.Lookup(ctx, accountSecretKeyPrefix+secret); id != "" {
		if view, ok := r.cache.Get(ctx, accountViewKeyPrefix+id); ok && view.APISecret == secret {
			return view, nil
		}
	}

	// Fallback: PostgreSQL
	query := `
		SELECT id, username, email, api_secret, balance
		FROM accounts
		WHERE api_secret = $1
	`
	var view models.AccountView
	pgErr := r.db.QueryRow(query, secret).Scan(
		&view.ID, &view.Username, &view.Email, &view.APISecret, &view.Balance,
	)
	if pgErr == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if pgErr != nil {
		return nil, fmt.Errorf("failed to get account: %w", pgErr)
	}

	// Warm the cache
	r.CacheAccountView(ctx, &view)
	return &view, nil
}

// GetByID returns an AccountView, trying Redis first then PostgreSQL.
func (r *AccountReadRepository) GetByID(ctx context.Context, id int64) (*models.AccountView, error) {
	cacheKey := accountViewKeyPrefix + strconv.FormatInt(id, 10)
	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}
	return r.RefreshByID(ctx, id)
}

// RefreshByID re-reads an account from PostgreSQL and rewrites its cached
// view. Used after balance mutations and by the event subscriber; safe to
// call repeatedly.
func (r *AccountReadRepository) RefreshByID(ctx context.Context, id int64) (*models.AccountView, error) {
	query := `
		SELECT id, username, email, api_secret, balance
		FROM accounts
		WHERE id = $1
	`
	var view models.AccountView
	pgErr := r.db.QueryRow(query, id).Scan(
		&view.ID, &view.Username, &view.Email, &view.APISecret, &view.Balance,
	)
	if pgErr != nil {
		// Refresh failed; drop the cached view so a pre-mutation balance
		// cannot keep being served from Redis.
		r.cache.Delete(ctx, accountViewKeyPrefix+strconv.FormatInt(id, 10))
		if pgErr == sql.ErrNoRows {
			return nil, models.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to refresh account: %w", pgErr)
	}

	r.CacheAccountView(ctx, &view)
	return &view, nil
}

// CacheAccountView stores or refreshes the Redis read model for an account,
// including the secret -> id index entry behind the auth hot path.
func (r *AccountReadRepository) CacheAccountView(ctx context.Context, view *models.AccountView) {
	id := strconv.FormatInt(view.ID, 10)
	r.cache.Set(ctx, accountViewKeyPrefix+id, view)
	r.index.Store(ctx, accountSecretKeyPrefix+view.APISecret, id)
}
