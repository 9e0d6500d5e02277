package routes

import (
	"github.com/gofiber/fiber/v2"

	"salecrm-backend/controllers"
	"salecrm-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public endpoints
	api.Post("/users", controllers.CreateUser) // registration
	api.Post("/login", controllers.Login)
	api.Post("/refresh", controllers.Refresh)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then the per-request transaction for mutating methods
	protected.Use(middlewares.RequestTx())

	// Users
	protected.Get("/users", controllers.GetUsers)
	protected.Get("/users/:id", controllers.GetUser)
	protected.Put("/users/:id", controllers.UpdateUser)
	protected.Delete("/users/:id", controllers.DeleteUser)

	// Contacts; /contacts/locked must register before /contacts/:id so
	// "locked" is never captured as an id
	protected.Post("/contacts", controllers.CreateContact)
	protected.Post("/contacts/import", controllers.ImportContacts)
	protected.Get("/contacts", controllers.GetContacts)
	protected.Get("/contacts/locked", controllers.GetLockedContacts)
	protected.Get("/contacts/:id", controllers.GetContact)
	protected.Put("/contacts/:id", controllers.UpdateContact)
	protected.Patch("/contacts/:id/status", controllers.UpdateContactStatus)
	protected.Get("/contacts/:id/history", controllers.GetContactHistory)
	protected.Delete("/contacts/:id", controllers.DeleteContact)

	// Status and outcome lookups
	protected.Get("/contact-statuses", controllers.GetContactStatuses)
	protected.Post("/contact-statuses", controllers.CreateContactStatus)
	protected.Get("/sale-statuses", controllers.GetSaleStatuses)
	protected.Get("/sales-outcomes", controllers.GetSalesOutcomes)

	// Calls
	protected.Post("/calls", controllers.CreateCall)
	protected.Get("/calls", controllers.GetCalls)
	protected.Get("/calls/:id", controllers.GetCall)
	protected.Delete("/calls/:id", controllers.DeleteCall)

	// Sales
	protected.Post("/sales", controllers.CreateSale)
	protected.Get("/sales", controllers.GetSales)
	protected.Get("/sales/:id", controllers.GetSale)
	protected.Put("/sales/:id", controllers.UpdateSale)
	protected.Delete("/sales/:id", controllers.DeleteSale)
}
