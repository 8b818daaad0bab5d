package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hkawano/student-task-api/internal/constants"
	apierrors "github.com/hkawano/student-task-api/internal/errors"
	"github.com/hkawano/student-task-api/internal/models"
	"github.com/hkawano/student-task-api/internal/repository"
	"github.com/hkawano/student-task-api/internal/token"
)

// RequireAuth resolves the request's bearer token into an authenticated
// identity or rejects the request before any handler runs. Every request is
// authenticated independently; nothing is cached across requests.
func RequireAuth(tokens *token.Service, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != constants.BearerScheme || parts[1] == "" {
			apierrors.Unauthorized(c, "Missing or invalid Authorization header")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// The teacher assignment embedded at issue time may be stale, so it
		// is re-read from the store on every request.
		user, err := users.FindByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Unauthorized(c, "User not found")
			} else {
				log.Printf("auth: failed to load user %d: %v", userID, err)
				apierrors.InternalError(c)
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyIdentity, models.Identity{
			ID:        user.ID,
			Role:      claims.Role,
			TeacherID: user.TeacherID,
		})
		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from context
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	v, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return models.Identity{}, false
	}

	identity, ok := v.(models.Identity)
	return identity, ok
}
