package models

// ContactStatus is a row of the closed contact lifecycle enumeration.
// The table is seeded at startup; names are canonical display forms.
type ContactStatus struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:50;unique;not null"`
}

type SaleStatus struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:50;unique;not null"`
}

type SalesOutcome struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:50;unique;not null"`
}
