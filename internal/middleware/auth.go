package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"contacts/internal/models"
	"contacts/internal/repositories"
)

const userKey = "authUser"

// Auth validates the opaque session token sent verbatim in the
// Authorization header and injects the resolved user into the context.
func Auth(users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader("Authorization"))
		if token == "" {
			log.Println("[AUTH] [ERROR] missing token")
			abortUnauthorized(c)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := users.FindByToken(ctx, token)
		if err != nil {
			if err != repositories.ErrNotFound {
				log.Println("[AUTH] [ERROR] token lookup failed:", err)
			}
			abortUnauthorized(c)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"errors": gin.H{"message": []string{"unauthorized"}},
	})
}

// CurrentUser returns the user bound by Auth, or nil on an unauthenticated
// request.
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
