package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"contacts/internal/models"
	"contacts/internal/repositories"
)

type addressRequest struct {
	PostalCode string `json:"postal_code" binding:"omitempty,max=10"`
	Street     string `json:"street" binding:"omitempty,max=100"`
	City       string `json:"city" binding:"omitempty,max=100"`
	Province   string `json:"province" binding:"omitempty,max=100"`
	Country    string `json:"country" binding:"required,max=100"`
}

func (r *addressRequest) apply(address *models.Address) {
	address.PostalCode = strings.TrimSpace(r.PostalCode)
	address.Street = strings.TrimSpace(r.Street)
	address.City = strings.TrimSpace(r.City)
	address.Province = strings.TrimSpace(r.Province)
	address.Country = strings.TrimSpace(r.Country)
}

func bindAddressRequest(c *gin.Context) (*addressRequest, bool) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return nil, false
	}
	if strings.TrimSpace(req.Country) == "" {
		respondFieldErrors(c, map[string][]string{
			"country": {"The country field is required."},
		})
		return nil, false
	}
	return &req, true
}

// resolveAddress is the second ownership hop: the contact must already be
// resolved under the acting user before the address is looked up under it.
func resolveAddress(ctx context.Context, c *gin.Context, addresses repositories.AddressRepository, contact *models.Contact, route string) (*models.Address, bool) {
	addressID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("addressId")))
	if err != nil {
		respondMessage(c, http.StatusNotFound, route, "address not found")
		return nil, false
	}

	address, err := addresses.FindInContact(ctx, contact.ID, addressID)
	if err != nil {
		if err == repositories.ErrNotFound {
			respondMessage(c, http.StatusNotFound, route, "address not found")
			return nil, false
		}
		respondServerError(c, route, err)
		return nil, false
	}
	return address, true
}

func CreateAddress(contacts repositories.ContactRepository, addresses repositories.AddressRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /contacts/:id/addresses"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		contact, ok := resolveContact(ctx, c, contacts, route)
		if !ok {
			return
		}

		req, ok := bindAddressRequest(c)
		if !ok {
			return
		}

		address := models.Address{ContactID: contact.ID}
		req.apply(&address)

		if err := addresses.Create(ctx, &address); err != nil {
			respondServerError(c, route, err)
			return
		}

		log.Println("[ADDRESS] [INFO] created:", address.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{"data": address})
	}
}

func ListAddresses(contacts repositories.ContactRepository, addresses repositories.AddressRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /contacts/:id/addresses"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		contact, ok := resolveContact(ctx, c, contacts, route)
		if !ok {
			return
		}

		list, err := addresses.ListByContact(ctx, contact.ID)
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": list})
	}
}

func GetAddress(contacts repositories.ContactRepository, addresses repositories.AddressRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /contacts/:id/addresses/:addressId"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		contact, ok := resolveContact(ctx, c, contacts, route)
		if !ok {
			return
		}
		address, ok := resolveAddress(ctx, c, addresses, contact, route)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": address})
	}
}

func UpdateAddress(contacts repositories.ContactRepository, addresses repositories.AddressRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /contacts/:id/addresses/:addressId"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		contact, ok := resolveContact(ctx, c, contacts, route)
		if !ok {
			return
		}
		address, ok := resolveAddress(ctx, c, addresses, contact, route)
		if !ok {
			return
		}

		req, ok := bindAddressRequest(c)
		if !ok {
			return
		}
		req.apply(address)

		if err := addresses.Update(ctx, address); err != nil {
			if err == repositories.ErrNotFound {
				respondMessage(c, http.StatusNotFound, route, "address not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		log.Println("[ADDRESS] [INFO] updated:", address.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"data": address})
	}
}

func DeleteAddress(contacts repositories.ContactRepository, addresses repositories.AddressRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /contacts/:id/addresses/:addressId"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		contact, ok := resolveContact(ctx, c, contacts, route)
		if !ok {
			return
		}
		address, ok := resolveAddress(ctx, c, addresses, contact, route)
		if !ok {
			return
		}

		if err := addresses.DeleteInContact(ctx, contact.ID, address.ID); err != nil {
			if err == repositories.ErrNotFound {
				respondMessage(c, http.StatusNotFound, route, "address not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		log.Println("[ADDRESS] [INFO] deleted:", address.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"data": true})
	}
}
