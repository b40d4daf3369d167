package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"contacts/internal/middleware"
	"contacts/internal/models"
	"contacts/internal/repositories"
)

type fakeUserRepo struct {
	users []*models.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Username == user.Username {
			return repositories.ErrUsernameTaken
		}
	}
	user.ID = primitive.NewObjectID()
	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			found := *u
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) FindByToken(_ context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, repositories.ErrNotFound
	}
	for _, u := range r.users {
		if u.Token == token {
			found := *u
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.ID == user.ID {
			u.Name = user.Name
			u.PasswordHash = user.PasswordHash
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeUserRepo) SetToken(_ context.Context, id primitive.ObjectID, token string) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Token = token
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeUserRepo) ClearToken(_ context.Context, id primitive.ObjectID) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Token = ""
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeContactRepo struct {
	contacts []*models.Contact
}

func (r *fakeContactRepo) Create(_ context.Context, contact *models.Contact) error {
	contact.ID = primitive.NewObjectID()
	stored := *contact
	r.contacts = append(r.contacts, &stored)
	return nil
}

func (r *fakeContactRepo) FindOwned(_ context.Context, userID, contactID primitive.ObjectID) (*models.Contact, error) {
	for _, ct := range r.contacts {
		if ct.ID == contactID && ct.UserID == userID {
			found := *ct
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeContactRepo) Update(_ context.Context, contact *models.Contact) error {
	for _, ct := range r.contacts {
		if ct.ID == contact.ID && ct.UserID == contact.UserID {
			ct.FirstName = contact.FirstName
			ct.LastName = contact.LastName
			ct.Email = contact.Email
			ct.Phone = contact.Phone
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeContactRepo) DeleteOwned(_ context.Context, userID, contactID primitive.ObjectID) error {
	for i, ct := range r.contacts {
		if ct.ID == contactID && ct.UserID == userID {
			r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func containsFold(value, term string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(term))
}

func (r *fakeContactRepo) Search(_ context.Context, userID primitive.ObjectID, filter repositories.ContactFilter, page, size int64) ([]models.Contact, int64, error) {
	matched := make([]models.Contact, 0)
	for _, ct := range r.contacts {
		if ct.UserID != userID {
			continue
		}
		if filter.Name != "" && !containsFold(ct.FirstName, filter.Name) && !containsFold(ct.LastName, filter.Name) {
			continue
		}
		if filter.Email != "" && !containsFold(ct.Email, filter.Email) {
			continue
		}
		if filter.Phone != "" && !containsFold(ct.Phone, filter.Phone) {
			continue
		}
		matched = append(matched, *ct)
	}

	total := int64(len(matched))
	start := (page - 1) * size
	if start >= total {
		return []models.Contact{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

type fakeAddressRepo struct {
	addresses []*models.Address
}

func (r *fakeAddressRepo) Create(_ context.Context, address *models.Address) error {
	address.ID = primitive.NewObjectID()
	stored := *address
	r.addresses = append(r.addresses, &stored)
	return nil
}

func (r *fakeAddressRepo) FindInContact(_ context.Context, contactID, addressID primitive.ObjectID) (*models.Address, error) {
	for _, a := range r.addresses {
		if a.ID == addressID && a.ContactID == contactID {
			found := *a
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAddressRepo) Update(_ context.Context, address *models.Address) error {
	for _, a := range r.addresses {
		if a.ID == address.ID && a.ContactID == address.ContactID {
			a.PostalCode = address.PostalCode
			a.Street = address.Street
			a.City = address.City
			a.Province = address.Province
			a.Country = address.Country
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeAddressRepo) DeleteInContact(_ context.Context, contactID, addressID primitive.ObjectID) error {
	for i, a := range r.addresses {
		if a.ID == addressID && a.ContactID == contactID {
			r.addresses = append(r.addresses[:i], r.addresses[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeAddressRepo) ListByContact(_ context.Context, contactID primitive.ObjectID) ([]models.Address, error) {
	list := make([]models.Address, 0)
	for _, a := range r.addresses {
		if a.ContactID == contactID {
			list = append(list, *a)
		}
	}
	return list, nil
}

type testEnv struct {
	router    *gin.Engine
	users     *fakeUserRepo
	contacts  *fakeContactRepo
	addresses *fakeAddressRepo
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	users := &fakeUserRepo{}
	contacts := &fakeContactRepo{}
	addresses := &fakeAddressRepo{}

	r := gin.New()
	r.POST("/users", Register(users))
	r.POST("/users/login", Login(users))

	private := r.Group("")
	private.Use(middleware.Auth(users))
	{
		private.GET("/users/current", GetCurrentUser())
		private.PATCH("/users/current", UpdateCurrentUser(users))
		private.DELETE("/users/logout", Logout(users))

		private.POST("/contacts", CreateContact(contacts))
		private.GET("/contacts", SearchContacts(contacts))
		private.GET("/contacts/:id", GetContact(contacts))
		private.PUT("/contacts/:id", UpdateContact(contacts))
		private.DELETE("/contacts/:id", DeleteContact(contacts))

		private.POST("/contacts/:id/addresses", CreateAddress(contacts, addresses))
		private.GET("/contacts/:id/addresses", ListAddresses(contacts, addresses))
		private.GET("/contacts/:id/addresses/:addressId", GetAddress(contacts, addresses))
		private.PUT("/contacts/:id/addresses/:addressId", UpdateAddress(contacts, addresses))
		private.DELETE("/contacts/:id/addresses/:addressId", DeleteAddress(contacts, addresses))
	}

	return &testEnv{router: r, users: users, contacts: contacts, addresses: addresses}
}

// seedUser stores a user with a bcrypt-hashed password and an already
// active session token equal to the username, mirroring the seed fixtures.
func (e *testEnv) seedUser(t *testing.T, username, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		PasswordHash: string(hash),
		Name:         username,
		Token:        username,
	}
	e.users.users = append(e.users.users, user)
	return user
}

func (e *testEnv) seedContact(userID primitive.ObjectID, first, last, email, phone string) *models.Contact {
	contact := &models.Contact{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     phone,
	}
	e.contacts.contacts = append(e.contacts.contacts, contact)
	return contact
}

func (e *testEnv) seedAddress(contactID primitive.ObjectID, country string) *models.Address {
	address := &models.Address{
		ID:         primitive.NewObjectID(),
		ContactID:  contactID,
		PostalCode: "111111",
		Street:     "mendalan",
		City:       "lamongan",
		Province:   "east java",
		Country:    country,
	}
	e.addresses.addresses = append(e.addresses.addresses, address)
	return address
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func dataObject(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	data, ok := decodeBody(t, w)["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %s", w.Body.String())
	}
	return data
}

func errorFields(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	errs, ok := decodeBody(t, w)["errors"].(map[string]any)
	if !ok {
		t.Fatalf("expected errors object, got %s", w.Body.String())
	}
	return errs
}
