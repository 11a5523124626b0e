package middleware

import (
	"net/http"
	"strings"

	"github.com/examind/proctor-backend/internal/response"
	"github.com/examind/proctor-backend/internal/service"
	"github.com/gin-gonic/gin"
)

const ctxCredential = "exam_credential"

// RequireCredential authenticates the student's exam credential from the
// Authorization header, falling back to a token query parameter for
// WebSocket upgrades where headers are awkward.
func RequireCredential(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "missing exam credential")
			return
		}

		claims, err := service.ParseCredential(token, secret)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "invalid or expired exam credential")
			return
		}

		c.Set(ctxCredential, claims)
		c.Next()
	}
}

// GetCredential returns the claims set by RequireCredential.
func GetCredential(c *gin.Context) *service.Credential {
	if v, ok := c.Get(ctxCredential); ok {
		if claims, ok := v.(*service.Credential); ok {
			return claims
		}
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
