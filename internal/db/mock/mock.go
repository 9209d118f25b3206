package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crumb/internal/db"
	applog "crumb/internal/log"
	"crumb/internal/samples"
	"crumb/internal/store"
	"crumb/models"
)

const (
	// DemoEmail and DemoPassword sign in to the seeded account.
	DemoEmail    = "baker@crumb.app"
	DemoPassword = "levain"
)

// New returns an in-memory sqlite database seeded with a demo baker and the
// sample formulas.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:crumb-mock-%s?mode=memory&cache=shared", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:         "Robin Hearth",
		Email:        DemoEmail,
		PasswordHash: string(password),
	}
	if err := database.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	formulas := []models.Formula{
		samples.BasicLevain(now),
		samples.CountryLoaf(now),
		samples.PoolishBrioche(now),
	}

	s := store.New(database)
	for _, f := range formulas {
		if _, _, err := s.Create(ctx, user.ID, f); err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded", "formulas", len(formulas))
	return nil
}
