package cqrs

type RegisterAccountCommand struct {
	Username string
	Email    string
}

type UpdateAccountCommand struct {
	AccountID int64
	Username  string
	Email     string
}

type WithdrawCommand struct {
	AccountID int64
	Amount    int64
}

type TransferCommand struct {
	FromAccountID int64
	ToAccountID   int64
	Amount        int64
}

type CreateTransactionCommand struct {
	AccountID          int64
	Amount             int64
	PaymentMethod      string
	CardNumber         string
	CardName           string
	CardExpirationDate string
	CardCVV            string
	ClientName         string
	ClientEmail        string
}

type PayTransactionCommand struct {
	TransactionID int64
	AccountID     int64
}

type CancelTransactionCommand struct {
	TransactionID int64
	AccountID     int64
}
