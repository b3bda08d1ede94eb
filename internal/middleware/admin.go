package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"holoframe-backend/internal/apierr"
)

const AdminPasswordHeader = "X-Admin-Password"

// AdminMiddleware guards operator routes with a shared password.
func AdminMiddleware(password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if password == "" {
			abort(c, apierr.Configuration("ADMIN_PASSWORD is not configured"))
			return
		}
		given := c.GetHeader(AdminPasswordHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(password)) != 1 {
			abort(c, apierr.Auth("invalid admin password", nil))
			return
		}
		c.Next()
	}
}
