package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lorraynemfg/ledger-api/internal/cqrs"
	"github.com/lorraynemfg/ledger-api/internal/middleware"
	"github.com/lorraynemfg/ledger-api/internal/models"
)

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	Register(ctx context.Context, cmd cqrs.RegisterAccountCommand) (*models.Account, error)
	Update(ctx context.Context, cmd cqrs.UpdateAccountCommand) error
	Withdraw(ctx context.Context, cmd cqrs.WithdrawCommand) error
	Transfer(ctx context.Context, cmd cqrs.TransferCommand) error
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	GetBalance(ctx context.Context, q cqrs.GetBalanceQuery) (int64, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

type RegisterAccountRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
}

type RegisterAccountResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	APIKey   string `json:"api_key"`
}

type UpdateAccountRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
}

type WithdrawRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type TransferRequest struct {
	Amount    int64 `json:"amount" validate:"required,gt=0"`
	AccountID int64 `json:"account_id" validate:"required"`
}

type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

const internalErrorMessage = "Erro interno do servidor."

// Register handles POST /account. The only unauthenticated endpoint.
func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, `Os campos "username" e "email" são obrigatórios.`)
		return
	}
	if errs := middleware.ValidateRequest(req); errs != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, `Os campos "username" e "email" são obrigatórios.`)
		return
	}

	account, err := h.commands.Register(c.Request.Context(), cqrs.RegisterAccountCommand{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			middleware.RespondWithError(c, http.StatusBadRequest, "Já existe conta cadastrada com o e-mail informado.")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	c.JSON(http.StatusCreated, RegisterAccountResponse{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
		APIKey:   account.APISecret,
	})
}

// Update handles PUT /account.
func (h *AccountHandler) Update(c *gin.Context) {
	account, _ := middleware.GetAccount(c)

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, `Os campos "username" e "email" são obrigatórios.`)
		return
	}
	if errs := middleware.ValidateRequest(req); errs != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, `Os campos "username" e "email" são obrigatórios.`)
		return
	}

	err := h.commands.Update(c.Request.Context(), cqrs.UpdateAccountCommand{
		AccountID: account.ID,
		Username:  req.Username,
		Email:     req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmailInUse):
			middleware.RespondWithError(c, http.StatusBadRequest, "O e-mail informado já está sendo utilizado por outro usuário.")
		case errors.Is(err, models.ErrAccountNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Conta não encontrada")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, internalErrorMessage)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetBalance handles GET /balance.
func (h *AccountHandler) GetBalance(c *gin.Context) {
	account, _ := middleware.GetAccount(c)

	balance, err := h.queries.GetBalance(c.Request.Context(), cqrs.GetBalanceQuery{AccountID: account.ID})
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Conta não encontrada")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{Balance: balance})
}

// Withdraw handles POST /withdraw.
func (h *AccountHandler) Withdraw(c *gin.Context) {
	account, _ := middleware.GetAccount(c)

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, `O campo "amount" deve ser um valor positivo.`)
		return
	}
	if errs := middleware.ValidateRequest(req); errs != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, `O campo "amount" deve ser um valor positivo.`)
		return
	}

	err := h.commands.Withdraw(c.Request.Context(), cqrs.WithdrawCommand{
		AccountID: account.ID,
		Amount:    req.Amount,
	})
	if err != nil {
		if errors.Is(err, models.ErrInsufficientFunds) {
			middleware.RespondWithError(c, http.StatusBadRequest, "Saldo insuficiente.")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	c.Status(http.StatusNoContent)
}

// Transfer handles POST /transfer. Success is a bare 200, matching the
// existing client contract.
func (h *AccountHandler) Transfer(c *gin.Context) {
	account, _ := middleware.GetAccount(c)

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, `Os campos "amount" e "account_id" são obrigatórios.`)
		return
	}
	if errs := middleware.ValidateRequest(req); errs != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, `Os campos "amount" e "account_id" são obrigatórios.`)
		return
	}

	err := h.commands.Transfer(c.Request.Context(), cqrs.TransferCommand{
		FromAccountID: account.ID,
		ToAccountID:   req.AccountID,
		Amount:        req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDestinationNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Conta de destino não encontrada.")
		case errors.Is(err, models.ErrInsufficientFunds):
			middleware.RespondWithError(c, http.StatusBadRequest, "Saldo insuficiente.")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, internalErrorMessage)
		}
		return
	}

	c.Status(http.StatusOK)
}
