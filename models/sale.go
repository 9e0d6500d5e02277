package models

import "time"

type Sale struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	UserID    uint     `json:"user_id" gorm:"not null;uniqueIndex:idx_sales_user_contact,priority:1"`
	User      *User    `json:"-" gorm:"foreignKey:UserID;references:Id;constraint:OnDelete:CASCADE"`
	ContactID uint     `json:"contact_id" gorm:"not null;uniqueIndex:idx_sales_user_contact,priority:2"`
	Contact   *Contact `json:"-" gorm:"foreignKey:ContactID;references:ID;constraint:OnDelete:CASCADE"`

	StatusID  uint          `json:"status_id" gorm:"not null"`
	Status    *SaleStatus   `json:"status,omitempty" gorm:"foreignKey:StatusID;references:ID"`
	OutcomeID *uint         `json:"outcome_id"`
	Outcome   *SalesOutcome `json:"outcome,omitempty" gorm:"foreignKey:OutcomeID;references:ID;constraint:OnDelete:SET NULL"`

	SaleAmount          float64    `json:"sale_amount" gorm:"type:numeric(12,2);not null"`
	PaymentStatus       string     `json:"payment_status" gorm:"size:20;default:Pending"`
	ExpectedClosureDate *time.Time `json:"expected_closure_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
