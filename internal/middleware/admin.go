package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/examind/proctor-backend/internal/response"
	"github.com/gin-gonic/gin"
)

// RequireAdminKey guards the admin surface with a shared API key. The
// platform's own admin authentication terminates in front of this
// service; the key is the trust boundary between the two.
func RequireAdminKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			response.AbortFail(c, http.StatusServiceUnavailable, response.ErrCodeInternal, "admin access is not configured")
			return
		}

		provided := c.GetHeader("X-Admin-Key")
		if provided == "" {
			provided = c.Query("key")
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "invalid admin key")
			return
		}
		c.Next()
	}
}
