package middleware

import (
	"github.com/M-Alradhi/gradproject-api/internal/constants"
	"github.com/M-Alradhi/gradproject-api/internal/database"
	apierrors "github.com/M-Alradhi/gradproject-api/internal/errors"
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole checks that the authenticated user holds one of the given
// roles. The role is loaded from the user row, not trusted from the session.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Set(constants.ContextKeyRole, string(user.Role))
				c.Set("current_user", user)
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "")
		c.Abort()
	}
}

// GetRole retrieves the current user's role from context
func GetRole(c *gin.Context) (models.UserRole, bool) {
	role, exists := c.Get(constants.ContextKeyRole)
	if !exists {
		return "", false
	}
	if r, ok := role.(string); ok {
		return models.UserRole(r), true
	}
	return "", false
}
