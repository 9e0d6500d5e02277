package controllers

import (
	"errors"
	"log"
	"strings"

	"salecrm-backend/database"
	"salecrm-backend/lifecycle"
	"salecrm-backend/middlewares"
	"salecrm-backend/models"
	"salecrm-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ContactCreateDTO struct {
	Name       string   `json:"name" validate:"omitempty,max=255"`
	Phone      string   `json:"phone" validate:"required,phone"`
	Phone2     *string  `json:"phone2" validate:"omitempty,phone"`
	Email      *string  `json:"email" validate:"omitempty,email"`
	Address    *string  `json:"address"`
	PostalCode *int     `json:"postal_code" validate:"omitempty,gte=0"`
	RegionName *string  `json:"region_name" validate:"omitempty,max=50"`
	SSN        *string  `json:"ssn" validate:"omitempty,ssn"`
	DealValue  *float64 `json:"deal_value" validate:"omitempty,gte=0"`
	StatusID   *uint    `json:"status_id"`
}

// ContactUpdateDTO carries profile fields only. Status and lock moves go
// through PATCH /contacts/:id/status.
type ContactUpdateDTO struct {
	Name       *string  `json:"name" validate:"omitempty,max=255"`
	Phone      *string  `json:"phone" validate:"omitempty,phone"`
	Phone2     *string  `json:"phone2" validate:"omitempty,phone"`
	Email      *string  `json:"email" validate:"omitempty,email"`
	Address    *string  `json:"address"`
	PostalCode *int     `json:"postal_code" validate:"omitempty,gte=0"`
	RegionName *string  `json:"region_name" validate:"omitempty,max=50"`
	SSN        *string  `json:"ssn" validate:"omitempty,ssn"`
	DealValue  *float64 `json:"deal_value" validate:"omitempty,gte=0"`
}

type StatusChangeDTO struct {
	StatusID   uint   `json:"status_id"`
	StatusName string `json:"status_name"`
}

// POST /api/contacts
func CreateContact(c *fiber.Ctx) error {
	var in ContactCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db := database.FromCtx(c)
	eng := lifecycle.NewEngine(db)

	// New contacts default to "New"; an explicit status_id must resolve.
	var status *models.ContactStatus
	var err error
	if in.StatusID != nil {
		status, err = eng.ResolveStatusByID(*in.StatusID)
	} else {
		status, err = eng.ResolveStatusByName(lifecycle.StatusNew.String())
	}
	if err != nil {
		return err
	}
	if status.Name == lifecycle.StatusExclusiveLock.String() {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "new contacts cannot start in Exclusive Lock")
	}

	var dup models.Contact
	err = db.Where("phone = ?", in.Phone).First(&dup).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "contact with this phone already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	contact := models.Contact{
		Name:       in.Name,
		Phone:      in.Phone,
		Phone2:     in.Phone2,
		Email:      in.Email,
		Address:    in.Address,
		PostalCode: in.PostalCode,
		RegionName: in.RegionName,
		SSN:        in.SSN,
		DealValue:  in.DealValue,
		StatusID:   &status.ID,
	}
	if err := db.Create(&contact).Error; err != nil {
		if isUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "contact with this phone, email or ssn already exists")
		}
		return err
	}

	out, err := eng.Get(contact.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GET /api/contacts?limit=&offset=
func GetContacts(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	var contacts []models.Contact
	err := database.FromCtx(c).
		Preload("Status").Preload("LockedBy").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&contacts).Error
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"contacts": contacts,
		"message":  "success",
	})
}

// GET /api/contacts/locked
func GetLockedContacts(c *fiber.Ctx) error {
	eng := lifecycle.NewEngine(database.FromCtx(c))
	contacts, err := eng.LockedContacts()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"contacts": contacts,
		"message":  "success",
	})
}

// GET /api/contacts/:id
// Viewing an unclaimed ("New") contact claims it for the viewer.
func GetContact(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	eng := lifecycle.NewEngine(database.FromCtx(c))
	contact, claimed, err := eng.Claim(id, currentActor(c))
	if err != nil {
		return err
	}
	if claimed {
		log.Printf("contact %d claimed by user %d on view", contact.ID, currentUserID(c))
	}
	return c.JSON(contact)
}

// PUT /api/contacts/:id
func UpdateContact(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var in ContactUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db := database.FromCtx(c)
	eng := lifecycle.NewEngine(db)

	contact, err := eng.Get(id)
	if err != nil {
		return err
	}
	if !lifecycle.AllowWrite(contact, currentActor(c)) {
		return lifecycle.ErrLockHeld
	}

	updates := utils.UpdatesFromPtrDTO(&in)
	if len(updates) == 0 {
		return c.JSON(contact)
	}

	if err := db.Model(&models.Contact{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "contact with this phone, email or ssn already exists")
		}
		return err
	}

	out, err := eng.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PATCH /api/contacts/:id/status
// Accepts {"status_id": N} or {"status_name": "Follow Up"}; names are the
// canonical display forms, matched exactly.
func UpdateContactStatus(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var in StatusChangeDTO
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if in.StatusID == 0 && strings.TrimSpace(in.StatusName) == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "status_id or status_name required")
	}

	eng := lifecycle.NewEngine(database.FromCtx(c))

	var target lifecycle.Status
	if in.StatusID != 0 {
		row, err := eng.ResolveStatusByID(in.StatusID)
		if err != nil {
			return err
		}
		target, err = lifecycle.ParseStatus(row.Name)
		if err != nil {
			return err
		}
	} else {
		target, err = lifecycle.ParseStatus(strings.TrimSpace(in.StatusName))
		if err != nil {
			return err
		}
	}

	if _, err := eng.SetStatus(id, currentActor(c), target); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/contacts/:id/history
func GetContactHistory(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	eng := lifecycle.NewEngine(database.FromCtx(c))
	transitions, err := eng.History(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"transitions": transitions,
		"message":     "success",
	})
}

// DELETE /api/contacts/:id (admin only)
func DeleteContact(c *fiber.Ctx) error {
	if !isAdmin(c) {
		return fiber.NewError(fiber.StatusForbidden, "admin access required")
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	db := database.FromCtx(c)
	var contact models.Contact
	if err := db.First(&contact, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lifecycle.ErrContactNotFound
		}
		return err
	}
	if err := db.Delete(&contact).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
