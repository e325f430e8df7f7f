package events

import "time"

// Event types
const (
	AccountCreated = "account.created"
	AccountUpdated = "account.updated"
	BalanceUpdated = "balance.updated"

	WithdrawalCreated = "withdrawal.created"
	TransferCreated   = "transfer.created"

	TransactionCreated  = "transaction.created"
	TransactionPaid     = "transaction.paid"
	TransactionCanceled = "transaction.canceled"
)

// LedgerEventsStream carries every domain event the service emits.
const LedgerEventsStream = "ledger.events"

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Account events
type AccountCreatedEvent struct {
	AccountID int64  `json:"accountId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

type AccountUpdatedEvent struct {
	AccountID int64  `json:"accountId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

// BalanceUpdatedEvent is emitted after every committed balance mutation,
// whatever the operation that caused it.
type BalanceUpdatedEvent struct {
	AccountID  int64 `json:"accountId"`
	NewBalance int64 `json:"newBalance"`
	Change     int64 `json:"change"`
}

// Audit events
type WithdrawalCreatedEvent struct {
	AccountID int64 `json:"accountId"`
	Amount    int64 `json:"amount"`
}

type TransferCreatedEvent struct {
	FromAccountID int64 `json:"fromAccountId"`
	ToAccountID   int64 `json:"toAccountId"`
	Amount        int64 `json:"amount"`
}

// Transaction lifecycle events
type TransactionCreatedEvent struct {
	TransactionID int64  `json:"transactionId"`
	AccountID     int64  `json:"accountId"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
	Status        string `json:"status"`
}

type TransactionPaidEvent struct {
	TransactionID int64 `json:"transactionId"`
	AccountID     int64 `json:"accountId"`
	Amount        int64 `json:"amount"`
}

type TransactionCanceledEvent struct {
	TransactionID int64 `json:"transactionId"`
	AccountID     int64 `json:"accountId"`
	Amount        int64 `json:"amount"`
	Refunded      bool  `json:"refunded"`
}
