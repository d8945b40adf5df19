package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/nutripraxis/nutripraxis-api/internal/repository"
	"github.com/nutripraxis/nutripraxis-api/internal/util"
)

// EnsureUserRecord makes sure a practitioner row exists for the
// authenticated token before any handler runs. Accounts live in the
// external identity service; rows here are created lazily on first
// contact.
func EnsureUserRecord(users repository.UserRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := util.GetUserIDFromContext(c)
		if err != nil {
			c.Next()
			return
		}

		if user, err := users.GetOrCreateUser(userID); err == nil {
			c.Set("user", user)
		}
		c.Next()
	}
}
