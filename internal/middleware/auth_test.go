package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lorraynemfg/ledger-api/internal/models"
)

type mockResolver struct {
	accounts map[string]*models.AccountView
}

func (m *mockResolver) GetByAPISecret(_ context.Context, secret string) (*models.AccountView, error) {
	if account, ok := m.accounts[secret]; ok {
		return account, nil
	}
	return nil, models.ErrAccountNotFound
}

func newAuthTestRouter(resolver AccountResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/balance", APIKeyAuth(resolver), func(c *gin.Context) {
		account, ok := GetAccount(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": account.Balance})
	})
	return r
}

func TestAPIKeyAuth(t *testing.T) {
	resolver := &mockResolver{accounts: map[string]*models.AccountView{
		"aB3dE6gH9jK2mN5p": {ID: 1, Username: "alice", Balance: 100},
	}}

	tests := []struct {
		name           string
		url            string
		expectedStatus int
	}{
		{name: "valid key", url: "/balance?api_key=aB3dE6gH9jK2mN5p", expectedStatus: http.StatusOK},
		{name: "unknown key", url: "/balance?api_key=zzzzzzzzzzzzzzzz", expectedStatus: http.StatusNotFound},
		{name: "malformed key", url: "/balance?api_key=short", expectedStatus: http.StatusNotFound},
		{name: "missing key", url: "/balance", expectedStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(resolver)
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAPIKeyAuthErrorBody(t *testing.T) {
	router := newAuthTestRouter(&mockResolver{accounts: map[string]*models.AccountView{}})
	req, _ := http.NewRequest(http.MethodGet, "/balance?api_key=aB3dE6gH9jK2mN5p", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	want := `{"mensagem":"Conta não encontrada"}`
	if w.Body.String() != want {
		t.Errorf("expected body %s, got %s", want, w.Body.String())
	}
}
