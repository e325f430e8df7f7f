package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lorraynemfg/ledger-api/internal/cqrs"
	"github.com/lorraynemfg/ledger-api/internal/middleware"
	"github.com/lorraynemfg/ledger-api/internal/models"
)

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	Create(ctx context.Context, cmd cqrs.CreateTransactionCommand) (*models.Transaction, error)
	Pay(ctx context.Context, cmd cqrs.PayTransactionCommand) error
	Cancel(ctx context.Context, cmd cqrs.CancelTransactionCommand) error
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	GetTransaction(ctx context.Context, q cqrs.GetTransactionQuery) (*models.TransactionView, error)
}

// TransactionHandler handles transaction lifecycle HTTP requests.
type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

type CreateTransactionRequest struct {
	Amount             int64  `json:"amount" validate:"required,gt=0"`
	PaymentMethod      string `json:"payment_method" validate:"required,oneof=credit billet"`
	CardNumber         string `json:"card_number" validate:"required_if=PaymentMethod credit"`
	CardName           string `json:"card_name" validate:"required_if=PaymentMethod credit"`
	CardExpirationDate string `json:"card_expiration_date" validate:"required_if=PaymentMethod credit"`
	CardCVV            string `json:"card_cvv" validate:"required_if=PaymentMethod credit"`
	ClientName         string `json:"client_name"`
	ClientEmail        string `json:"client_email"`
}

// Create handles POST /transaction. Responds 200 with the transaction object,
// card fields echoed for credit, bar code for billet.
func (h *TransactionHandler) Create(c *gin.Context) {
	account, _ := middleware.GetAccount(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Método de pagamento inválido")
		return
	}
	if errs := middleware.ValidateRequest(req); errs != nil {
		switch {
		case middleware.FieldFailed(errs, "PaymentMethod"):
			middleware.RespondWithError(c, http.StatusBadRequest, "Método de pagamento inválido")
		case middleware.FieldFailed(errs, "CardNumber", "CardName", "CardExpirationDate", "CardCVV"):
			middleware.RespondWithError(c, http.StatusBadRequest, "Dados do cartão inválidos")
		default:
			middleware.RespondWithError(c, http.StatusBadRequest, `O campo "amount" deve ser um valor positivo.`)
		}
		return
	}

	transaction, err := h.commands.Create(c.Request.Context(), cqrs.CreateTransactionCommand{
		AccountID:          account.ID,
		Amount:             req.Amount,
		PaymentMethod:      req.PaymentMethod,
		CardNumber:         req.CardNumber,
		CardName:           req.CardName,
		CardExpirationDate: req.CardExpirationDate,
		CardCVV:            req.CardCVV,
		ClientName:         req.ClientName,
		ClientEmail:        req.ClientEmail,
	})
	if err != nil {
		if errors.Is(err, models.ErrInsufficientFunds) {
			middleware.RespondWithError(c, http.StatusBadRequest, "Saldo insuficiente.")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// Cancel handles PATCH /transaction/:id.
func (h *TransactionHandler) Cancel(c *gin.Context) {
	account, _ := middleware.GetAccount(c)

	id, ok := transactionID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusNotFound, "Transação não encontrada.")
		return
	}

	err := h.commands.Cancel(c.Request.Context(), cqrs.CancelTransactionCommand{
		TransactionID: id,
		AccountID:     account.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTransactionNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Transação não encontrada.")
		case errors.Is(err, models.ErrAlreadyCanceled):
			middleware.RespondWithError(c, http.StatusBadRequest, "Transação já está cancelada.")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, internalErrorMessage)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// Pay handles PATCH /pay/:id. Success is a bare 200, matching the existing
// client contract.
func (h *TransactionHandler) Pay(c *gin.Context) {
	account, _ := middleware.GetAccount(c)

	id, ok := transactionID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusNotFound, "Transação inexistente.")
		return
	}

	err := h.commands.Pay(c.Request.Context(), cqrs.PayTransactionCommand{
		TransactionID: id,
		AccountID:     account.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTransactionNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Transação inexistente.")
		case errors.Is(err, models.ErrTransactionCanceled):
			middleware.RespondWithError(c, http.StatusBadRequest, "Transação está cancelada.")
		case errors.Is(err, models.ErrAlreadyPaid):
			middleware.RespondWithError(c, http.StatusBadRequest, "Transação já está paga.")
		case errors.Is(err, models.ErrInsufficientFunds):
			middleware.RespondWithError(c, http.StatusBadRequest, "Saldo insuficiente.")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, internalErrorMessage)
		}
		return
	}

	c.Status(http.StatusOK)
}

// Get handles GET /transaction/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	account, _ := middleware.GetAccount(c)

	id, ok := transactionID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusNotFound, "Transação inexistente.")
		return
	}

	view, err := h.queries.GetTransaction(c.Request.Context(), cqrs.GetTransactionQuery{
		TransactionID: id,
		AccountID:     account.ID,
	})
	if err != nil {
		if errors.Is(err, models.ErrTransactionNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Transação inexistente.")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	c.JSON(http.StatusOK, view)
}

// transactionID parses the :id route parameter. A non-numeric id cannot
// match any row, so callers treat a parse failure as not-found.
func transactionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
