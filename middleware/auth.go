package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stayhub/utils"
)

// AuthMiddleware validates the bearer token and stores the caller's identity
// on the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Error:   utils.KindUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		userID, isAdmin, err := utils.ExtractClaimsFromToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Error:   utils.KindUnauthorized,
				Message: "invalid or expired token",
			})
			return
		}

		c.Set("userID", userID)
		c.Set("isAdmin", isAdmin)
		c.Next()
	}
}

// AdminMiddleware allows only admin callers through. Must run after
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("isAdmin") {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
				Error:   utils.KindUnauthorized,
				Message: "admin access required",
			})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's id from the request context.
func UserID(c *gin.Context) string {
	return c.GetString("userID")
}

// IsAdmin reports whether the authenticated caller is an admin.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool("isAdmin")
}
