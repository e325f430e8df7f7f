package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lorraynemfg/ledger-api/internal/cqrs"
	"github.com/lorraynemfg/ledger-api/internal/models"
)

// ---- mock implementations ----

type mockAccountCommander struct {
	registerFn func(cqrs.RegisterAccountCommand) (*models.Account, error)
	updateFn   func(cqrs.UpdateAccountCommand) error
	withdrawFn func(cqrs.WithdrawCommand) error
	transferFn func(cqrs.TransferCommand) error
}

func (m *mockAccountCommander) Register(_ context.Context, cmd cqrs.RegisterAccountCommand) (*models.Account, error) {
	if m.registerFn != nil {
		return m.registerFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockAccountCommander) Update(_ context.Context, cmd cqrs.UpdateAccountCommand) error {
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return fmt.Errorf("not configured")
}
func (m *mockAccountCommander) Withdraw(_ context.Context, cmd cqrs.WithdrawCommand) error {
	if m.withdrawFn != nil {
		return m.withdrawFn(cmd)
	}
	return fmt.Errorf("not configured")
}
func (m *mockAccountCommander) Transfer(_ context.Context, cmd cqrs.TransferCommand) error {
	if m.transferFn != nil {
		return m.transferFn(cmd)
	}
	return fmt.Errorf("not configured")
}

type mockAccountQuerier struct {
	balanceFn func(cqrs.GetBalanceQuery) (int64, error)
}

func (m *mockAccountQuerier) GetBalance(_ context.Context, q cqrs.GetBalanceQuery) (int64, error) {
	if m.balanceFn != nil {
		return m.balanceFn(q)
	}
	return 0, fmt.Errorf("not configured")
}

// ---- helpers ----

var authedAccount = &models.AccountView{
	ID: 1, Username: "alice", Email: "alice@example.com",
	APISecret: "aaaabbbbccccdddd", Balance: 15000,
}

func fakeAuth(account *models.AccountView) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("account", account)
		c.Next()
	}
}

func newAccountTestRouter(cmds AccountCommander, qrys AccountQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAccountHandler(cmds, qrys)
	r.POST("/account", h.Register)
	authed := r.Group("/", fakeAuth(authedAccount))
	authed.PUT("/account", h.Update)
	authed.GET("/balance", h.GetBalance)
	authed.POST("/withdraw", h.Withdraw)
	authed.POST("/transfer", h.Transfer)
	return r
}

func doRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- tests ----

func TestRegister(t *testing.T) {
	created := &models.Account{
		ID: 7, Username: "alice", Email: "a@x.com",
		APISecret: "0123456789abcdef", Balance: 0,
	}

	tests := []struct {
		name           string
		body           interface{}
		registerFn     func(cqrs.RegisterAccountCommand) (*models.Account, error)
		expectedStatus int
	}{
		{
			name:           "success - account created",
			body:           map[string]interface{}{"username": "alice", "email": "a@x.com"},
			registerFn:     func(cmd cqrs.RegisterAccountCommand) (*models.Account, error) { return created, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing username",
			body:           map[string]interface{}{"email": "a@x.com"},
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing email",
			body:           map[string]interface{}{"username": "alice"},
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - duplicate email",
			body: map[string]interface{}{"username": "alice", "email": "a@x.com"},
			registerFn: func(cmd cqrs.RegisterAccountCommand) (*models.Account, error) {
				return nil, models.ErrDuplicateEmail
			},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAccountCommander{registerFn: tt.registerFn}
			router := newAccountTestRouter(cmds, &mockAccountQuerier{})
			w := doRequest(router, http.MethodPost, "/account", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRegisterResponseShape(t *testing.T) {
	created := &models.Account{
		ID: 7, Username: "alice", Email: "a@x.com",
		APISecret: "0123456789abcdef", Balance: 0,
	}
	cmds := &mockAccountCommander{
		registerFn: func(cmd cqrs.RegisterAccountCommand) (*models.Account, error) { return created, nil },
	}
	router := newAccountTestRouter(cmds, &mockAccountQuerier{})
	w := doRequest(router, http.MethodPost, "/account", map[string]interface{}{"username": "alice", "email": "a@x.com"})

	var resp RegisterAccountResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 7 || resp.Username != "alice" || resp.Email != "a@x.com" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(resp.APIKey) != 16 {
		t.Errorf("expected 16-char api_key, got %q", resp.APIKey)
	}
}

func TestUpdateAccount(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		updateFn       func(cqrs.UpdateAccountCommand) error
		expectedStatus int
	}{
		{
			name:           "success - profile updated",
			body:           map[string]interface{}{"username": "alice2", "email": "a2@x.com"},
			updateFn:       func(cmd cqrs.UpdateAccountCommand) error { return nil },
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "bad request - missing fields",
			body:           map[string]interface{}{"username": "alice2"},
			updateFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - email used by another account",
			body:           map[string]interface{}{"username": "alice2", "email": "taken@x.com"},
			updateFn:       func(cmd cqrs.UpdateAccountCommand) error { return models.ErrEmailInUse },
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAccountCommander{updateFn: tt.updateFn}
			router := newAccountTestRouter(cmds, &mockAccountQuerier{})
			w := doRequest(router, http.MethodPut, "/account", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetBalance(t *testing.T) {
	qrys := &mockAccountQuerier{
		balanceFn: func(q cqrs.GetBalanceQuery) (int64, error) {
			if q.AccountID != authedAccount.ID {
				t.Errorf("expected account id %d, got %d", authedAccount.ID, q.AccountID)
			}
			return 15000, nil
		},
	}
	router := newAccountTestRouter(&mockAccountCommander{}, qrys)
	w := doRequest(router, http.MethodGet, "/balance", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	var resp BalanceResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Balance != 15000 {
		t.Errorf("expected balance 15000, got %d", resp.Balance)
	}
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		withdrawFn     func(cqrs.WithdrawCommand) error
		expectedStatus int
	}{
		{
			name:           "success - funds withdrawn",
			body:           map[string]interface{}{"amount": 5000},
			withdrawFn:     func(cmd cqrs.WithdrawCommand) error { return nil },
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "bad request - insufficient funds",
			body:           map[string]interface{}{"amount": 20000},
			withdrawFn:     func(cmd cqrs.WithdrawCommand) error { return models.ErrInsufficientFunds },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - zero amount",
			body:           map[string]interface{}{"amount": 0},
			withdrawFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - negative amount",
			body:           map[string]interface{}{"amount": -100},
			withdrawFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAccountCommander{withdrawFn: tt.withdrawFn}
			router := newAccountTestRouter(cmds, &mockAccountQuerier{})
			w := doRequest(router, http.MethodPost, "/withdraw", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestTransfer(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		transferFn     func(cqrs.TransferCommand) error
		expectedStatus int
	}{
		{
			name:           "success - transfer executed",
			body:           map[string]interface{}{"amount": 5000, "account_id": 2},
			transferFn:     func(cmd cqrs.TransferCommand) error { return nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found - destination account missing",
			body:           map[string]interface{}{"amount": 5000, "account_id": 99},
			transferFn:     func(cmd cqrs.TransferCommand) error { return models.ErrDestinationNotFound },
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad request - insufficient funds",
			body:           map[string]interface{}{"amount": 99999, "account_id": 2},
			transferFn:     func(cmd cqrs.TransferCommand) error { return models.ErrInsufficientFunds },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing destination",
			body:           map[string]interface{}{"amount": 5000},
			transferFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAccountCommander{transferFn: tt.transferFn}
			router := newAccountTestRouter(cmds, &mockAccountQuerier{})
			w := doRequest(router, http.MethodPost, "/transfer", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestTransferSourceIsAuthedAccount(t *testing.T) {
	var got cqrs.TransferCommand
	cmds := &mockAccountCommander{
		transferFn: func(cmd cqrs.TransferCommand) error { got = cmd; return nil },
	}
	router := newAccountTestRouter(cmds, &mockAccountQuerier{})
	doRequest(router, http.MethodPost, "/transfer", map[string]interface{}{"amount": 100, "account_id": 2})

	if got.FromAccountID != authedAccount.ID {
		t.Errorf("expected source account %d, got %d", authedAccount.ID, got.FromAccountID)
	}
	if got.ToAccountID != 2 || got.Amount != 100 {
		t.Errorf("unexpected command: %+v", got)
	}
}
