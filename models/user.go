package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin       = "admin"
	RoleSalesperson = "salesperson"
)

type User struct {
	Id             uint       `json:"id" gorm:"primaryKey"`
	Username       string     `json:"username" gorm:"size:64;unique;not null"`
	Email          string     `json:"email" gorm:"unique;not null"`
	FullName       string     `json:"full_name" gorm:"not null"`
	HashedPassword []byte     `json:"-" gorm:"not null"`
	Role           string     `json:"role" gorm:"size:20;not null;default:salesperson"`
	Phone          *string    `json:"phone" gorm:"size:20"`
	Phone2         *string    `json:"phone2" gorm:"size:20"`
	LastLogin      *time.Time `json:"last_login"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (user *User) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	user.HashedPassword = hashedPassword
}

func (user *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password))
}

func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin
}
