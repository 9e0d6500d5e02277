package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportBatch records one CSV intake run of contacts.
type ImportBatch struct {
	Id       string `json:"id" gorm:"primaryKey"`
	Filename string `json:"filename" gorm:"size:255"`
	Rows     int    `json:"rows"`    // data rows seen (header excluded)
	Created  int    `json:"created"` // contacts inserted
	Skipped  int    `json:"skipped"` // duplicates and unusable rows

	CreatedAt time.Time `json:"created_at"`
}

func (batch *ImportBatch) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	batch.Id = uuid.NewString()
	return
}
