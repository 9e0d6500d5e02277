package models

import "time"

// Call outcomes on the call record itself (distinct from the uppercase
// disposition tags that drive contact status).
const (
	CallPending       = "pending"
	CallCompleted     = "completed"
	CallFailed        = "failed"
	CallNotInterested = "not interested"
)

func ValidCallStatus(status string) bool {
	switch status {
	case CallPending, CallCompleted, CallFailed, CallNotInterested:
		return true
	}
	return false
}

type Call struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	UserID    uint     `json:"user_id" gorm:"not null;index"`
	User      *User    `json:"user,omitempty" gorm:"foreignKey:UserID;references:Id;constraint:OnDelete:CASCADE"`
	ContactID uint     `json:"contact_id" gorm:"not null;index:idx_calls_contact_created,priority:1"`
	Contact   *Contact `json:"-" gorm:"foreignKey:ContactID;references:ID;constraint:OnDelete:CASCADE"`

	Duration int       `json:"duration" gorm:"not null"` // minutes, >= 1
	CallTime time.Time `json:"call_time" gorm:"not null"`
	Status   string    `json:"status" gorm:"size:20;not null;default:pending"`

	// Uppercase outcome tag ("SALE", "CALLBACK", ...). Free-form; only
	// mapped tags move the contact.
	Disposition *string `json:"disposition" gorm:"size:50"`
	Notes       *string `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_calls_contact_created,priority:2"`
	UpdatedAt time.Time `json:"updated_at"`
}
