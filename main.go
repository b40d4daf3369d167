package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"contacts/internal/config"
	"contacts/internal/database"
	"contacts/internal/handlers"
	"contacts/internal/middleware"
	"contacts/internal/repositories"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureContactIndexes(db); err != nil {
		log.Printf("contact index warning: %v", err)
	}
	if err := database.EnsureAddressIndexes(db); err != nil {
		log.Printf("address index warning: %v", err)
	}

	users := repositories.NewUserRepository(db)
	contacts := repositories.NewContactRepository(db)
	addresses := repositories.NewAddressRepository(db)

	r := gin.Default()

	r.POST("/users", handlers.Register(users))
	r.POST("/users/login", handlers.Login(users))

	private := r.Group("")
	private.Use(middleware.Auth(users))
	{
		private.GET("/users/current", handlers.GetCurrentUser())
		private.PATCH("/users/current", handlers.UpdateCurrentUser(users))
		private.DELETE("/users/logout", handlers.Logout(users))

		private.POST("/contacts", handlers.CreateContact(contacts))
		private.GET("/contacts", handlers.SearchContacts(contacts))
		private.GET("/contacts/:id", handlers.GetContact(contacts))
		private.PUT("/contacts/:id", handlers.UpdateContact(contacts))
		private.DELETE("/contacts/:id", handlers.DeleteContact(contacts))

		private.POST("/contacts/:id/addresses", handlers.CreateAddress(contacts, addresses))
		private.GET("/contacts/:id/addresses", handlers.ListAddresses(contacts, addresses))
		private.GET("/contacts/:id/addresses/:addressId", handlers.GetAddress(contacts, addresses))
		private.PUT("/contacts/:id/addresses/:addressId", handlers.UpdateAddress(contacts, addresses))
		private.DELETE("/contacts/:id/addresses/:addressId", handlers.DeleteAddress(contacts, addresses))
	}

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
