package middleware

import (
	"net/http" // HTTP status codes

	"invest_platform/internal/repository" // User lookup

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the user's role from the database on each request
func AdminOnlyMiddleware(store repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := CurrentUserID(c) // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := store.GetUserByID(c.Request.Context(), userID) // Fetch user from database
		// If user not found, inactive or not admin, abort with forbidden status
		if err != nil || !user.Active || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Acesso restrito a administradores"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
