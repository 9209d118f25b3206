package models

import "gorm.io/gorm"

// User is a baker's account. Email is stored lower-cased and unique; the
// formulas the baker owns hang off OwnerID.
type User struct {
	gorm.Model
	Email        string          `gorm:"uniqueIndex;not null"`
	PasswordHash string          `gorm:"not null"`
	Name         string
	Formulas     []FormulaRecord `gorm:"foreignKey:OwnerID"`
}
