package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"contacts/internal/middleware"
	"contacts/internal/models"
	"contacts/internal/repositories"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=100"`
	Name     string `json:"name" binding:"required,max=100"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=100"`
}

type userUpdateRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Password *string `json:"password" binding:"omitempty,max=100"`
}

func userProfile(user *models.User) gin.H {
	return gin.H{
		"username": user.Username,
		"name":     user.Name,
	}
}

func Register(users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users"
		defer handlePanic(c, route)

		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		username := strings.TrimSpace(req.Username)
		if username == "" {
			respondFieldErrors(c, map[string][]string{
				"username": {"The username field is required."},
			})
			return
		}

		if _, err := users.FindByUsername(ctx, username); err == nil {
			respondFieldErrors(c, map[string][]string{
				"username": {"username already registered"},
			})
			return
		} else if err != repositories.ErrNotFound {
			respondServerError(c, route, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		user := models.User{
			Username:     username,
			PasswordHash: string(hash),
			Name:         strings.TrimSpace(req.Name),
		}
		if err := users.Create(ctx, &user); err != nil {
			// A concurrent registration can slip past the pre-check; the
			// unique index reports it as the same conflict.
			if err == repositories.ErrUsernameTaken {
				respondFieldErrors(c, map[string][]string{
					"username": {"username already registered"},
				})
				return
			}
			respondServerError(c, route, err)
			return
		}

		log.Println("[USER] [INFO] registered:", user.Username)
		c.JSON(http.StatusCreated, gin.H{"data": userProfile(&user)})
	}
}

func Login(users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users/login"
		defer handlePanic(c, route)

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		// Unknown username and wrong password answer identically so the
		// response never confirms that an account exists.
		user, err := users.FindByUsername(ctx, strings.TrimSpace(req.Username))
		if err != nil {
			if err != repositories.ErrNotFound {
				respondServerError(c, route, err)
				return
			}
			respondMessage(c, http.StatusUnauthorized, route, "Username or password is wrong")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondMessage(c, http.StatusUnauthorized, route, "Username or password is wrong")
			return
		}

		token := uuid.NewString()
		if err := users.SetToken(ctx, user.ID, token); err != nil {
			respondServerError(c, route, err)
			return
		}

		log.Println("[USER] [INFO] login succeeded:", user.Username)
		profile := userProfile(user)
		profile["token"] = token
		c.JSON(http.StatusOK, gin.H{"data": profile})
	}
}

func GetCurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			abortMissingIdentity(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": userProfile(user)})
	}
}

func UpdateCurrentUser(users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /users/current"
		defer handlePanic(c, route)

		user := middleware.CurrentUser(c)
		if user == nil {
			abortMissingIdentity(c)
			return
		}

		var req userUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		// Absent fields stay unchanged; supplied-but-blank values are
		// rejected per field.
		fields := map[string][]string{}
		if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
			fields["name"] = append(fields["name"], "The name field is required.")
		}
		if req.Password != nil && strings.TrimSpace(*req.Password) == "" {
			fields["password"] = append(fields["password"], "The password field is required.")
		}
		if len(fields) > 0 {
			respondFieldErrors(c, fields)
			return
		}

		if req.Name != nil {
			user.Name = strings.TrimSpace(*req.Name)
		}
		if req.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(*req.Password)), bcrypt.DefaultCost)
			if err != nil {
				respondServerError(c, route, err)
				return
			}
			user.PasswordHash = string(hash)
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := users.Update(ctx, user); err != nil {
			respondServerError(c, route, err)
			return
		}

		log.Println("[USER] [INFO] profile updated:", user.Username)
		c.JSON(http.StatusOK, gin.H{"data": userProfile(user)})
	}
}

func Logout(users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /users/logout"
		defer handlePanic(c, route)

		user := middleware.CurrentUser(c)
		if user == nil {
			abortMissingIdentity(c)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := users.ClearToken(ctx, user.ID); err != nil {
			respondServerError(c, route, err)
			return
		}

		log.Println("[USER] [INFO] logged out:", user.Username)
		c.JSON(http.StatusOK, gin.H{"data": true})
	}
}

func abortMissingIdentity(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"errors": gin.H{"message": []string{"unauthorized"}},
	})
}
