package controllers

import (
	"errors"
	"time"

	"salecrm-backend/database"
	"salecrm-backend/middlewares"
	"salecrm-backend/models"
	"salecrm-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SaleCreateDTO struct {
	UserID              uint       `json:"user_id" validate:"required"`
	ContactID           uint       `json:"contact_id" validate:"required"`
	StatusID            uint       `json:"status_id" validate:"required"`
	OutcomeID           *uint      `json:"outcome_id"`
	SaleAmount          float64    `json:"sale_amount" validate:"gte=0"`
	PaymentStatus       string     `json:"payment_status" validate:"omitempty,max=20"`
	ExpectedClosureDate *time.Time `json:"expected_closure_date"`
}

type SaleUpdateDTO struct {
	StatusID            *uint      `json:"status_id"`
	OutcomeID           *uint      `json:"outcome_id"`
	SaleAmount          *float64   `json:"sale_amount" validate:"omitempty,gte=0"`
	PaymentStatus       *string    `json:"payment_status" validate:"omitempty,max=20"`
	ExpectedClosureDate *time.Time `json:"expected_closure_date"`
}

func saleRefsExist(db *gorm.DB, userID, contactID, statusID uint, outcomeID *uint) error {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}
	var contact models.Contact
	if err := db.First(&contact, contactID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "contact not found")
		}
		return err
	}
	var status models.SaleStatus
	if err := db.First(&status, statusID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "sale status not found")
		}
		return err
	}
	if outcomeID != nil {
		var outcome models.SalesOutcome
		if err := db.First(&outcome, *outcomeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "sales outcome not found")
			}
			return err
		}
	}
	return nil
}

// POST /api/sales
func CreateSale(c *fiber.Ctx) error {
	var in SaleCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db := database.FromCtx(c)
	if err := saleRefsExist(db, in.UserID, in.ContactID, in.StatusID, in.OutcomeID); err != nil {
		return err
	}

	// One sale per user and contact.
	var dup models.Sale
	err := db.Where("user_id = ? AND contact_id = ?", in.UserID, in.ContactID).First(&dup).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "a sale already exists for this user and contact")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	paymentStatus := in.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = "Pending"
	}
	sale := models.Sale{
		UserID:              in.UserID,
		ContactID:           in.ContactID,
		StatusID:            in.StatusID,
		OutcomeID:           in.OutcomeID,
		SaleAmount:          in.SaleAmount,
		PaymentStatus:       paymentStatus,
		ExpectedClosureDate: in.ExpectedClosureDate,
	}
	if err := db.Create(&sale).Error; err != nil {
		if isUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "a sale already exists for this user and contact")
		}
		return err
	}

	var out models.Sale
	if err := db.Preload("Status").Preload("Outcome").First(&out, sale.ID).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GET /api/sales (admins see all, others their own)
func GetSales(c *fiber.Ctx) error {
	db := database.FromCtx(c).Preload("Status").Preload("Outcome").Order("id")
	if !isAdmin(c) {
		db = db.Where("user_id = ?", currentUserID(c))
	}
	var sales []models.Sale
	if err := db.Find(&sales).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"sales":   sales,
		"message": "success",
	})
}

// GET /api/sales/:id (owner or admin)
func GetSale(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var sale models.Sale
	if err := database.FromCtx(c).Preload("Status").Preload("Outcome").First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "sale not found")
		}
		return err
	}
	if !isAdmin(c) && sale.UserID != currentUserID(c) {
		return fiber.NewError(fiber.StatusForbidden, "not authorized to view this sale")
	}
	return c.JSON(sale)
}

// PUT /api/sales/:id (owner or admin)
func UpdateSale(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var in SaleUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db := database.FromCtx(c)
	var sale models.Sale
	if err := db.First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "sale not found")
		}
		return err
	}
	if !isAdmin(c) && sale.UserID != currentUserID(c) {
		return fiber.NewError(fiber.StatusForbidden, "not authorized to update this sale")
	}

	if in.StatusID != nil {
		var status models.SaleStatus
		if err := db.First(&status, *in.StatusID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "sale status not found")
			}
			return err
		}
	}
	if in.OutcomeID != nil {
		var outcome models.SalesOutcome
		if err := db.First(&outcome, *in.OutcomeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "sales outcome not found")
			}
			return err
		}
	}

	updates := utils.UpdatesFromPtrDTO(&in)
	if len(updates) == 0 {
		return c.JSON(sale)
	}
	if err := db.Model(&sale).Updates(updates).Error; err != nil {
		return err
	}

	var out models.Sale
	if err := db.Preload("Status").Preload("Outcome").First(&out, id).Error; err != nil {
		return err
	}
	return c.JSON(out)
}

// DELETE /api/sales/:id (owner or admin)
func DeleteSale(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	db := database.FromCtx(c)
	var sale models.Sale
	if err := db.First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "sale not found")
		}
		return err
	}
	if !isAdmin(c) && sale.UserID != currentUserID(c) {
		return fiber.NewError(fiber.StatusForbidden, "not authorized to delete this sale")
	}
	if err := db.Delete(&sale).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
