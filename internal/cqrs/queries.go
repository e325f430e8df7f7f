package cqrs

// GetBalanceQuery fetches the current balance of the authenticated account.
type GetBalanceQuery struct {
	AccountID int64
}

// GetTransactionQuery fetches a single transaction, always scoped to the
// owning account so one account can never read another's transactions.
type GetTransactionQuery struct {
	TransactionID int64
	AccountID     int64
}
