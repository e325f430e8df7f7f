package models

import "time"

// Payment methods accepted on transaction creation.
const (
	PaymentMethodCredit = "credit"
	PaymentMethodBillet = "billet"
)

// Transaction lifecycle states.
const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusCanceled = "canceled"
)

// Account is the write model for an account row. Balance is held in integer
// minor units (centavos) so arithmetic never drifts.
type Account struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	APISecret string `json:"-"`
	Balance   int64  `json:"balance"`
}

// Transaction is the write model for a payment request. Card fields are only
// populated for credit transactions, BarCode only for billet.
type Transaction struct {
	ID                 int64      `json:"id"`
	AccountID          int64      `json:"account_id"`
	Amount             int64      `json:"amount"`
	PaymentMethod      string     `json:"payment_method"`
	Status             string     `json:"status"`
	CardNumber         *string    `json:"card_number"`
	CardName           *string    `json:"card_name"`
	CardExpirationDate *string    `json:"card_expiration_date"`
	CardCVV            *string    `json:"card_cvv"`
	ClientName         string     `json:"client_name"`
	ClientEmail        string     `json:"client_email"`
	BarCode            *string    `json:"bar_code"`
	PaidAt             *time.Time `json:"paid_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Withdrawal is an append-only audit record. Never read back by the service.
type Withdrawal struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Transfer is an append-only audit record. Never read back by the service.
type Transfer struct {
	ID            int64     `json:"id"`
	FromAccountID int64     `json:"from_account_id"`
	ToAccountID   int64     `json:"to_account_id"`
	Amount        int64     `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

// Payable reports whether the transaction may move to paid given the owning
// account's current balance. Returns the matching domain error otherwise.
func (t *Transaction) Payable(balance int64) error {
	switch t.Status {
	case StatusCanceled:
		return ErrTransactionCanceled
	case StatusPaid:
		return ErrAlreadyPaid
	}
	if balance < t.Amount {
		return ErrInsufficientFunds
	}
	return nil
}

// Cancelable reports whether the transaction may be canceled. Canceled is
// terminal; both pending and paid transactions can still be canceled.
func (t *Transaction) Cancelable() error {
	if t.Status == StatusCanceled {
		return ErrAlreadyCanceled
	}
	return nil
}
