package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/energix/fulfillment-service/internal/domain/errors"
)

// WebhookTokenHeader is the custom header the NLU engine is configured
// to send with every fulfillment call.
const WebhookTokenHeader = "X-Webhook-Token"

// AuthMiddleware verifies the shared webhook token.
type AuthMiddleware struct {
	token string
}

// NewAuthMiddleware creates a new AuthMiddleware. An empty token
// disables verification (development mode).
func NewAuthMiddleware(token string) *AuthMiddleware {
	return &AuthMiddleware{token: token}
}

// Authenticate returns a gin middleware enforcing the webhook token.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.token == "" {
			c.Next()
			return
		}
		provided := c.GetHeader(WebhookTokenHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(m.token)) != 1 {
			HandleError(c, domainerrors.NewUnauthorizedError("invalid webhook token"))
			return
		}
		c.Next()
	}
}
