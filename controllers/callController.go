package controllers

import (
	"errors"
	"log"
	"time"

	"salecrm-backend/database"
	"salecrm-backend/lifecycle"
	"salecrm-backend/middlewares"
	"salecrm-backend/models"
	"salecrm-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CallCreateDTO struct {
	ContactID   uint       `json:"contact_id" validate:"required"`
	Duration    int        `json:"duration" validate:"required,gte=1"`
	CallTime    *time.Time `json:"call_time"`
	Status      string     `json:"status"`
	Disposition *string    `json:"disposition" validate:"omitempty,max=50"`
	Notes       *string    `json:"notes"`
}

// POST /api/calls
// Logs a call for the authenticated user. A mapped disposition tag moves
// the contact in the same request transaction; both commit or neither does.
func CreateCall(c *fiber.Ctx) error {
	var in CallCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	status := in.Status
	if status == "" {
		status = models.CallPending
	}
	if !models.ValidCallStatus(status) {
		return fiber.NewError(fiber.StatusBadRequest,
			"invalid call status, allowed: pending, completed, failed, not interested")
	}

	db := database.FromCtx(c)
	eng := lifecycle.NewEngine(db)

	if _, err := eng.Get(in.ContactID); err != nil {
		return err
	}

	callTime := time.Now().UTC()
	if in.CallTime != nil {
		callTime = in.CallTime.UTC()
	}
	call := models.Call{
		UserID:      currentUserID(c),
		ContactID:   in.ContactID,
		Duration:    in.Duration,
		CallTime:    callTime,
		Status:      status,
		Disposition: in.Disposition,
		Notes:       in.Notes,
	}
	if err := db.Create(&call).Error; err != nil {
		return err
	}

	if in.Disposition != nil {
		contact, changed, err := eng.ApplyDisposition(in.ContactID, currentActor(c), *in.Disposition)
		if err != nil {
			return err
		}
		if changed {
			log.Printf("call %d disposition %q moved contact %d to %q",
				call.ID, *in.Disposition, contact.ID, contact.Status.Name)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(call)
}

// GET /api/calls (admins see all, others their own)
func GetCalls(c *fiber.Ctx) error {
	db := database.FromCtx(c).Preload("User").Order("call_time DESC").Order("id DESC")
	if !isAdmin(c) {
		db = db.Where("user_id = ?", currentUserID(c))
	}
	var calls []models.Call
	if err := db.Find(&calls).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"calls":   calls,
		"message": "success",
	})
}

// GET /api/calls/:id (owner or admin)
func GetCall(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var call models.Call
	if err := database.FromCtx(c).Preload("User").First(&call, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "call not found")
		}
		return err
	}
	if !isAdmin(c) && call.UserID != currentUserID(c) {
		return fiber.NewError(fiber.StatusForbidden, "not authorized to view this call")
	}
	return c.JSON(call)
}

// DELETE /api/calls/:id (owner or admin)
func DeleteCall(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	db := database.FromCtx(c)
	var call models.Call
	if err := db.First(&call, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "call not found")
		}
		return err
	}
	if !isAdmin(c) && call.UserID != currentUserID(c) {
		return fiber.NewError(fiber.StatusForbidden, "not authorized to delete this call")
	}
	if err := db.Delete(&call).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
