package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"contacts/internal/middleware"
	"contacts/internal/models"
	"contacts/internal/repositories"
)

type contactRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"omitempty,max=100"`
	Email     string `json:"email" binding:"omitempty,email,max=200"`
	Phone     string `json:"phone" binding:"omitempty,max=100"`
}

func (r *contactRequest) apply(contact *models.Contact) {
	contact.FirstName = strings.TrimSpace(r.FirstName)
	contact.LastName = strings.TrimSpace(r.LastName)
	contact.Email = strings.TrimSpace(r.Email)
	contact.Phone = strings.TrimSpace(r.Phone)
}

func bindContactRequest(c *gin.Context) (*contactRequest, bool) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return nil, false
	}
	if strings.TrimSpace(req.FirstName) == "" {
		respondFieldErrors(c, map[string][]string{
			"first_name": {"The first name field is required."},
		})
		return nil, false
	}
	return &req, true
}

// resolveContact looks up the contact named by the :id path parameter under
// the acting user. A malformed id, a missing id, and another user's contact
// all answer with the same not-found outcome.
func resolveContact(ctx context.Context, c *gin.Context, contacts repositories.ContactRepository, route string) (*models.Contact, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		abortMissingIdentity(c)
		return nil, false
	}

	contactID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
	if err != nil {
		respondMessage(c, http.StatusNotFound, route, "contact not found")
		return nil, false
	}

	contact, err := contacts.FindOwned(ctx, user.ID, contactID)
	if err != nil {
		if err == repositories.ErrNotFound {
			respondMessage(c, http.StatusNotFound, route, "contact not found")
			return nil, false
		}
		respondServerError(c, route, err)
		return nil, false
	}
	return contact, true
}

func CreateContact(contacts repositories.ContactRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /contacts"
		defer handlePanic(c, route)

		user := middleware.CurrentUser(c)
		if user == nil {
			abortMissingIdentity(c)
			return
		}

		req, ok := bindContactRequest(c)
		if !ok {
			return
		}

		contact := models.Contact{UserID: user.ID}
		req.apply(&contact)

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := contacts.Create(ctx, &contact); err != nil {
			respondServerError(c, route, err)
			return
		}

		log.Println("[CONTACT] [INFO] created:", contact.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{"data": contact})
	}
}

func SearchContacts(contacts repositories.ContactRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /contacts"
		defer handlePanic(c, route)

		user := middleware.CurrentUser(c)
		if user == nil {
			abortMissingIdentity(c)
			return
		}

		page, size, err := parsePaginationParams(c.Query("page"), c.Query("size"))
		if err != nil {
			respondMessage(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := repositories.ContactFilter{
			Name:  strings.TrimSpace(c.Query("name")),
			Email: strings.TrimSpace(c.Query("email")),
			Phone: strings.TrimSpace(c.Query("phone")),
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		results, total, err := contacts.Search(ctx, user.ID, filter, page, size)
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": results,
			"meta": gin.H{
				"current_page": page,
				"size":         size,
				"total":        total,
				"total_page":   totalPages(total, size),
			},
		})
	}
}

func GetContact(contacts repositories.ContactRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /contacts/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		contact, ok := resolveContact(ctx, c, contacts, route)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": contact})
	}
}

func UpdateContact(contacts repositories.ContactRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /contacts/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		contact, ok := resolveContact(ctx, c, contacts, route)
		if !ok {
			return
		}

		req, ok := bindContactRequest(c)
		if !ok {
			return
		}
		req.apply(contact)

		if err := contacts.Update(ctx, contact); err != nil {
			if err == repositories.ErrNotFound {
				respondMessage(c, http.StatusNotFound, route, "contact not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		log.Println("[CONTACT] [INFO] updated:", contact.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"data": contact})
	}
}

func DeleteContact(contacts repositories.ContactRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /contacts/:id"
		defer handlePanic(c, route)

		user := middleware.CurrentUser(c)
		if user == nil {
			abortMissingIdentity(c)
			return
		}

		contactID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondMessage(c, http.StatusNotFound, route, "contact not found")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := contacts.DeleteOwned(ctx, user.ID, contactID); err != nil {
			if err == repositories.ErrNotFound {
				respondMessage(c, http.StatusNotFound, route, "contact not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		log.Println("[CONTACT] [INFO] deleted:", contactID.Hex())
		c.JSON(http.StatusOK, gin.H{"data": true})
	}
}
