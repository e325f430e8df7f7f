package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lorraynemfg/ledger-api/internal/models"
	"github.com/lorraynemfg/ledger-api/internal/utils"
)

const accountContextKey = "account"

// AccountResolver looks up the account owning an api secret.
type AccountResolver interface {
	GetByAPISecret(ctx context.Context, secret string) (*models.AccountView, error)
}

// APIKeyAuth authenticates requests by the api_key query parameter. The key
// travels in the URL, not a header, for compatibility with existing clients;
// note that it therefore ends up in access logs.
//
// A wrong key and a missing account are deliberately indistinguishable: both
// answer 404.
func APIKeyAuth(accounts AccountResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("api_key")
		if !utils.ValidSecret(key) {
			RespondWithError(c, http.StatusNotFound, "Conta não encontrada")
			c.Abort()
			return
		}

		account, err := accounts.GetByAPISecret(c.Request.Context(), key)
		if err != nil {
			RespondWithError(c, http.StatusNotFound, "Conta não encontrada")
			c.Abort()
			return
		}

		c.Set(accountContextKey, account)
		c.Next()
	}
}

// GetAccount returns the account the auth middleware resolved for this request.
func GetAccount(c *gin.Context) (*models.AccountView, bool) {
	value, exists := c.Get(accountContextKey)
	if !exists {
		return nil, false
	}
	return value.(*models.AccountView), true
}
