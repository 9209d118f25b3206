// Package store persists formulas as an append-only list of versions.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	applog "crumb/internal/log"
	"crumb/models"
)

var (
	// ErrNotFound is returned when the owner has no formula with the id.
	ErrNotFound = errors.New("store: formula not found")
	// ErrVersionNotFound is returned when a requested version does not exist.
	ErrVersionNotFound = errors.New("store: formula version not found")
)

var nowFunc = time.Now

// Store reads and writes formula versions through gorm.
type Store struct {
	db *gorm.DB
}

// New wraps db. A nil db yields a Store whose calls fail with
// gorm.ErrInvalidDB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, error) {
	if s == nil || s.db == nil {
		return nil, gorm.ErrInvalidDB
	}
	return s.db.WithContext(ctx), nil
}

// Encode serializes a formula into the JSON column format.
func Encode(f models.Formula) (datatypes.JSON, error) {
	body, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode formula: %w", err)
	}
	return datatypes.JSON(body), nil
}

// Decode restores the formula stored in rec.
func Decode(rec models.FormulaRecord) (models.Formula, error) {
	var f models.Formula
	if err := json.Unmarshal(rec.Body, &f); err != nil {
		return models.Formula{}, fmt.Errorf("decode formula %s v%d: %w", rec.FormulaID, rec.Version, err)
	}
	f.AssignMissingIDs()
	return f, nil
}

// Create stores f as the first version of a new formula owned by ownerID.
func (s *Store) Create(ctx context.Context, ownerID uint, f models.Formula) (models.Formula, models.FormulaRecord, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return models.Formula{}, models.FormulaRecord{}, err
	}

	f = f.Clone()
	f.AssignMissingIDs()
	if f.Version <= 0 {
		f.Version = 1
	}
	rec, err := newRecord(ownerID, f, nil)
	if err != nil {
		return models.Formula{}, models.FormulaRecord{}, err
	}
	if err := db.Create(&rec).Error; err != nil {
		return models.Formula{}, models.FormulaRecord{}, fmt.Errorf("create formula: %w", err)
	}

	applog.Debug(ctx, "formula created", "formulaID", f.ID, "ownerID", ownerID, "version", f.Version)
	return f, rec, nil
}

func newRecord(ownerID uint, f models.Formula, parent *uint) (models.FormulaRecord, error) {
	body, err := Encode(f)
	if err != nil {
		return models.FormulaRecord{}, err
	}
	return models.FormulaRecord{
		FormulaID:      f.ID,
		Version:        f.Version,
		IsLatest:       true,
		ParentRecordID: parent,
		OwnerID:        ownerID,
		Name:           f.Name,
		Body:           body,
	}, nil
}

// Latest returns the newest version of a formula.
func (s *Store) Latest(ctx context.Context, ownerID uint, formulaID uuid.UUID) (models.Formula, models.FormulaRecord, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return models.Formula{}, models.FormulaRecord{}, err
	}

	rec, err := latestRecord(db, ownerID, formulaID)
	if err != nil {
		return models.Formula{}, models.FormulaRecord{}, err
	}
	f, err := Decode(rec)
	if err != nil {
		return models.Formula{}, models.FormulaRecord{}, err
	}
	return f, rec, nil
}

func latestRecord(db *gorm.DB, ownerID uint, formulaID uuid.UUID) (models.FormulaRecord, error) {
	var rec models.FormulaRecord
	err := db.Where("formula_id = ? AND owner_id = ? AND is_latest = ?", formulaID, ownerID, true).
		Order("version DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.FormulaRecord{}, ErrNotFound
	}
	if err != nil {
		return models.FormulaRecord{}, fmt.Errorf("load formula %s: %w", formulaID, err)
	}
	return rec, nil
}

// List returns the latest record of every formula the owner has, by name.
func (s *Store) List(ctx context.Context, ownerID uint) ([]models.FormulaRecord, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var records []models.FormulaRecord
	if err := db.Where("owner_id = ? AND is_latest = ?", ownerID, true).
		Order("name ASC").
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list formulas: %w", err)
	}
	return records, nil
}

// SaveVersion appends f as the newest version of its formula. The stored
// version number always follows the previous latest so the sequence stays
// monotonic even when an older state is restored.
func (s *Store) SaveVersion(ctx context.Context, ownerID uint, f models.Formula) (models.Formula, models.FormulaRecord, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return models.Formula{}, models.FormulaRecord{}, err
	}

	f = f.Clone()
	f.AssignMissingIDs()
	var rec models.FormulaRecord
	err = db.Transaction(func(tx *gorm.DB) error {
		previous, err := latestRecord(tx, ownerID, f.ID)
		if err != nil {
			return err
		}
		f.Version = previous.Version + 1
		rec, err = newRecord(ownerID, f, &previous.ID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.FormulaRecord{}).Where("id = ?", previous.ID).Update("is_latest", false).Error; err != nil {
			return fmt.Errorf("retire formula version: %w", err)
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("save formula version: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Formula{}, models.FormulaRecord{}, err
	}

	applog.Debug(ctx, "formula version saved", "formulaID", f.ID, "ownerID", ownerID, "version", f.Version)
	return f, rec, nil
}

// Versions lists every stored version of a formula, newest first.
func (s *Store) Versions(ctx context.Context, ownerID uint, formulaID uuid.UUID) ([]models.FormulaRecord, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var records []models.FormulaRecord
	if err := db.Where("formula_id = ? AND owner_id = ?", formulaID, ownerID).
		Order("version DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list formula versions: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

// Revert copies an older version forward as the new latest version.
func (s *Store) Revert(ctx context.Context, ownerID uint, formulaID uuid.UUID, version int) (models.Formula, models.FormulaRecord, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return models.Formula{}, models.FormulaRecord{}, err
	}

	var rec models.FormulaRecord
	err = db.Where("formula_id = ? AND owner_id = ? AND version = ?", formulaID, ownerID, version).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Formula{}, models.FormulaRecord{}, ErrVersionNotFound
	}
	if err != nil {
		return models.Formula{}, models.FormulaRecord{}, fmt.Errorf("load formula version: %w", err)
	}

	f, err := Decode(rec)
	if err != nil {
		return models.Formula{}, models.FormulaRecord{}, err
	}
	f.LastModified = nowFunc().UTC()
	applog.Info(ctx, "reverting formula", "formulaID", formulaID, "ownerID", ownerID, "toVersion", version)
	return s.SaveVersion(ctx, ownerID, f)
}

// Delete removes every version of a formula.
func (s *Store) Delete(ctx context.Context, ownerID uint, formulaID uuid.UUID) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	result := db.Where("formula_id = ? AND owner_id = ?", formulaID, ownerID).Delete(&models.FormulaRecord{})
	if result.Error != nil {
		return fmt.Errorf("delete formula: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	applog.Info(ctx, "formula deleted", "formulaID", formulaID, "ownerID", ownerID, "versions", result.RowsAffected)
	return nil
}
