package models

import "time"

// AccountView is the read-optimised projection of an account.
// APISecret is carried for the auth lookup but never serialised to a response.
type AccountView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	APISecret string `json:"-"`
	Balance   int64  `json:"balance"`
}

// TransactionView is the read-optimised projection of a transaction. It
// mirrors the write model field for field: GET /transaction/:id echoes the
// full row exactly as POST /transaction created it.
type TransactionView struct {
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
