package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ravkun27/nftix/internal/service"
	"github.com/ravkun27/nftix/internal/wallet"
	"github.com/ravkun27/nftix/pkg/response"
)

// ContextKeySession is the gin context key of the wallet session
const ContextKeySession = "wallet_session"

// RequireSession rejects requests without a valid wallet session
func RequireSession(wallets service.WalletService) gin.HandlerFunc {
	return sessionMiddleware(wallets, true)
}

// OptionalSession attaches the wallet session when a valid one is sent.
// A bad token is treated as no session at all.
func OptionalSession(wallets service.WalletService) gin.HandlerFunc {
	return sessionMiddleware(wallets, false)
}

func sessionMiddleware(wallets service.WalletService, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if required {
				response.AbortUnauthorized(c, "Wallet session required")
				return
			}
			c.Next()
			return
		}

		session, err := wallets.Authenticate(c.Request.Context(), token)
		if err != nil {
			if required {
				response.AbortUnauthorized(c, "Invalid or expired wallet session")
				return
			}
			c.Next()
			return
		}

		c.Set(ContextKeySession, session)
		c.Next()
	}
}

// GetSession returns the wallet session attached to the request
func GetSession(c *gin.Context) (*wallet.Session, bool) {
	v, exists := c.Get(ContextKeySession)
	if !exists {
		return nil, false
	}
	session, ok := v.(*wallet.Session)
	return session, ok
}

// Viewer is the connected wallet address, empty when there is none
func Viewer(c *gin.Context) string {
	if session, ok := GetSession(c); ok {
		return session.Address
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
