package controllers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"salecrm-backend/database"
	"salecrm-backend/middlewares"
	"salecrm-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// POST /api/login
func Login(c *fiber.Ctx) error {
	var in LoginDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	var user models.User
	if err := database.DB.Where("username = ?", in.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "incorrect username or password")
		}
		return err
	}
	if err := user.ComparePassword(in.Password); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "incorrect username or password")
	}

	access, refresh, err := middlewares.GenerateTokenPair(user.Id, user.Role)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := database.DB.Model(&user).Update("last_login", &now).Error; err != nil {
		log.Printf("last_login update failed for user %d: %v", user.Id, err)
	}

	return c.JSON(fiber.Map{
		"id":            user.Id,
		"username":      user.Username,
		"full_name":     user.FullName,
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
	})
}

// POST /api/refresh
func Refresh(c *fiber.Ctx) error {
	var in RefreshDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	claims, err := middlewares.ParseRefreshToken(in.RefreshToken)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired refresh token")
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired refresh token")
	}

	// The user must still exist; the role comes fresh from the DB, not the
	// old token.
	var user models.User
	if err := database.DB.First(&user, uint(userID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "user no longer exists")
		}
		return err
	}

	access, refresh, err := middlewares.GenerateTokenPair(user.Id, user.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
	})
}
