package controllers

import (
	"errors"
	"strconv"
	"strings"

	"salecrm-backend/database"
	"salecrm-backend/lifecycle"
	"salecrm-backend/middlewares"
	"salecrm-backend/models"
	"salecrm-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Identity helpers shared by all controllers; values are stashed by
// middlewares.IsAuthenticatedHeader.

func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

func currentRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}

func isAdmin(c *fiber.Ctx) bool {
	return currentRole(c) == models.RoleAdmin
}

func currentActor(c *fiber.Ctx) lifecycle.Actor {
	return lifecycle.Actor{ID: currentUserID(c), Role: currentRole(c)}
}

func uintParam(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(v), nil
}

// isUniqueViolation matches the constraint error texts of the Postgres and
// SQLite drivers. Pre-checks give friendly messages; this is the backstop
// for races.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

type UserCreateDTO struct {
	Username string  `json:"username" validate:"required,min=3,max=64"`
	Email    string  `json:"email" validate:"required,email"`
	FullName string  `json:"full_name" validate:"required"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"omitempty,oneof=admin salesperson"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Phone2   *string `json:"phone2" validate:"omitempty,phone"`
}

type UserUpdateDTO struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=64"`
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,min=1"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin salesperson"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Phone2   *string `json:"phone2" validate:"omitempty,phone"`
}

// POST /api/users (public registration)
func CreateUser(c *fiber.Ctx) error {
	var in UserCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db := database.FromCtx(c)

	// Friendly duplicate checks before the unique indexes fire.
	var existing models.User
	err := db.Where("username = ?", in.Username).Or("email = ?", in.Email).First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "username or email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if in.Phone != nil {
		err = db.Where("phone = ? OR phone2 = ?", *in.Phone, *in.Phone).First(&existing).Error
		if err == nil {
			return fiber.NewError(fiber.StatusConflict, "phone number already registered")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	role := in.Role
	if role == "" {
		role = models.RoleSalesperson
	}
	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		FullName: in.FullName,
		Role:     role,
		Phone:    in.Phone,
		Phone2:   in.Phone2,
	}
	user.SetPassword(in.Password)

	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "username or email already registered")
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GET /api/users (admin only)
func GetUsers(c *fiber.Ctx) error {
	if !isAdmin(c) {
		return fiber.NewError(fiber.StatusForbidden, "admin access required")
	}
	var users []models.User
	if err := database.FromCtx(c).Order("id").Find(&users).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"users":   users,
		"message": "success",
	})
}

// GET /api/users/:id (self or admin)
func GetUser(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	if !isAdmin(c) && currentUserID(c) != id {
		return fiber.NewError(fiber.StatusForbidden, "not authorized to view this user")
	}
	var user models.User
	if err := database.FromCtx(c).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}
	return c.JSON(user)
}

// PUT /api/users/:id (self or admin; role changes admin only)
func UpdateUser(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	if !isAdmin(c) && currentUserID(c) != id {
		return fiber.NewError(fiber.StatusForbidden, "not authorized to update this user")
	}

	var in UserUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)
	if in.Role != nil && !isAdmin(c) {
		return fiber.NewError(fiber.StatusForbidden, "only admins may change roles")
	}

	db := database.FromCtx(c)

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if in.Username != nil && *in.Username != user.Username {
		var other models.User
		err := db.Where("username = ? AND id <> ?", *in.Username, id).First(&other).Error
		if err == nil {
			return fiber.NewError(fiber.StatusConflict, "username already registered")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if in.Email != nil && *in.Email != user.Email {
		var other models.User
		err := db.Where("email = ? AND id <> ?", *in.Email, id).First(&other).Error
		if err == nil {
			return fiber.NewError(fiber.StatusConflict, "email already registered")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	updates := utils.UpdatesFromPtrDTO(&in, "password")
	if in.Password != nil {
		user.SetPassword(*in.Password)
		updates["hashed_password"] = user.HashedPassword
	}
	if len(updates) == 0 {
		return c.JSON(user)
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "username or email already registered")
		}
		return err
	}

	var out models.User
	if err := db.First(&out, id).Error; err != nil {
		return err
	}
	return c.JSON(out)
}

// DELETE /api/users/:id (self or admin)
func DeleteUser(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	if !isAdmin(c) && currentUserID(c) != id {
		return fiber.NewError(fiber.StatusForbidden, "not authorized to delete this user")
	}

	db := database.FromCtx(c)

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	// Release every lock the user still holds so no contact is left in
	// "Exclusive Lock" without an owner.
	var locked []models.Contact
	if err := db.Where("locked_by_user_id = ?", id).Find(&locked).Error; err != nil {
		return err
	}
	eng := lifecycle.NewEngine(db)
	for _, contact := range locked {
		if _, err := eng.SetStatus(contact.ID, lifecycle.Actor{ID: user.Id, Role: user.Role}, lifecycle.StatusNew); err != nil {
			return err
		}
	}

	if err := db.Delete(&user).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
