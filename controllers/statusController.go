package controllers

import (
	"errors"
	"strings"

	"salecrm-backend/database"
	"salecrm-backend/lifecycle"
	"salecrm-backend/middlewares"
	"salecrm-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ContactStatusCreateDTO struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

// GET /api/contact-statuses
func GetContactStatuses(c *fiber.Ctx) error {
	var statuses []models.ContactStatus
	if err := database.FromCtx(c).Order("id").Find(&statuses).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"statuses": statuses,
		"message":  "success",
	})
}

// POST /api/contact-statuses (admin only)
// The enumeration is closed: only canonical names pass, and seeding
// normally creates all of them, so this mostly re-creates deleted rows.
func CreateContactStatus(c *fiber.Ctx) error {
	if !isAdmin(c) {
		return fiber.NewError(fiber.StatusForbidden, "admin access required")
	}
	var in ContactStatusCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	name := strings.TrimSpace(in.Name)
	s, err := lifecycle.ParseStatus(name)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity,
			"status "+name+" is not allowed, valid values: "+joinStatuses())
	}

	db := database.FromCtx(c)
	var existing models.ContactStatus
	err = db.Where("name = ?", s.String()).First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "status already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	status := models.ContactStatus{Name: s.String()}
	if err := db.Create(&status).Error; err != nil {
		if isUniqueViolation(err) {
			return fiber.NewError(fiber.StatusBadRequest, "status already exists")
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(status)
}

func joinStatuses() string {
	names := make([]string, 0, len(lifecycle.Statuses()))
	for _, s := range lifecycle.Statuses() {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}

// GET /api/sale-statuses
func GetSaleStatuses(c *fiber.Ctx) error {
	var statuses []models.SaleStatus
	if err := database.FromCtx(c).Order("id").Find(&statuses).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"statuses": statuses,
		"message":  "success",
	})
}

// GET /api/sales-outcomes
func GetSalesOutcomes(c *fiber.Ctx) error {
	var outcomes []models.SalesOutcome
	if err := database.FromCtx(c).Order("id").Find(&outcomes).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"outcomes": outcomes,
		"message":  "success",
	})
}
