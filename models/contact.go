package models

import (
	"time"

	"gorm.io/datatypes"
)

// Contact is the current/live state of a lead worked by the sales floor.
type Contact struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone" gorm:"size:20;not null;uniqueIndex"`
	Phone2     *string  `json:"phone2" gorm:"size:20"`
	Email      *string  `json:"email" gorm:"uniqueIndex"`
	Address    *string  `json:"address"`
	PostalCode *int     `json:"postal_code"`
	RegionName *string  `json:"region_name" gorm:"size:50"`
	SSN        *string  `json:"ssn" gorm:"size:12;uniqueIndex"`
	DealValue  *float64 `json:"deal_value" gorm:"type:numeric(12,2)"`

	StatusID *uint          `json:"status_id" gorm:"index"`
	Status   *ContactStatus `json:"status" gorm:"foreignKey:StatusID;references:ID;constraint:OnDelete:SET NULL"`

	// Owner of the exclusive lock. Set exactly when the contact sits in
	// "Exclusive Lock", NULL in every other status.
	LockedByID *uint `json:"locked_by_user_id" gorm:"column:locked_by_user_id"`
	LockedBy   *User `json:"locked_by_user" gorm:"foreignKey:LockedByID;references:Id"`

	// Optimistic guard for status/lock mutations; every transition bumps it
	// inside the guarded UPDATE.
	LockVersion uint `json:"-" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactStatusTransition is the immutable audit trail of status/lock
// changes. One row per applied transition, newest last.
type ContactStatusTransition struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	ContactID    uint     `json:"contact_id" gorm:"index:idx_transitions_contact_created,priority:1"`
	Contact      *Contact `json:"-" gorm:"foreignKey:ContactID;references:ID;constraint:OnDelete:CASCADE"`
	ActorID      *uint    `json:"actor_user_id" gorm:"column:actor_user_id"`
	Actor        *User    `json:"-" gorm:"foreignKey:ActorID;references:Id;constraint:OnDelete:SET NULL"`
	FromStatusID *uint    `json:"from_status_id"`
	ToStatusID   uint     `json:"to_status_id"`
	Source       string   `json:"source" gorm:"type:VARCHAR(20)"` // "manual" | "claim" | "disposition"
	Disposition  *string  `json:"disposition" gorm:"size:50"`

	// Denormalized view of the transition (names, lock owners, map version)
	// so history stays readable after status rows or users change.
	Snapshot  datatypes.JSON `json:"snapshot" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_transitions_contact_created,priority:2"`
}
