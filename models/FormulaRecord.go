package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FormulaRecord persists one version of a Formula. Every scaling or edit
// appends a new record; the newest is flagged IsLatest.
type FormulaRecord struct {
	gorm.Model
	FormulaID      uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"formula_id"`
	Version        int            `gorm:"not null;default:1" json:"version"`
	IsLatest       bool           `gorm:"not null;default:true;index" json:"is_latest"`
	ParentRecordID *uint          `json:"parent_record_id"`
	OwnerID        uint           `gorm:"not null;index" json:"owner_id"`
	Owner          *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name           string         `gorm:"not null" json:"name"`
	Body           datatypes.JSON `gorm:"not null" json:"body"`
}
