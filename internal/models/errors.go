package models

import "errors"

// Domain errors. Handlers map these to HTTP statuses and the localized
// mensagem strings; repositories and services return them as-is.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrDestinationNotFound = errors.New("destination account not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrEmailInUse          = errors.New("email in use by another account")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionCanceled = errors.New("transaction is canceled")
	ErrAlreadyCanceled     = errors.New("transaction already canceled")
	ErrAlreadyPaid         = errors.New("transaction already paid")
)
