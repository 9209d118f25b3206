package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"crumb/internal/config"
	"crumb/internal/db"
	"crumb/internal/importer"
	"crumb/internal/store"
	"crumb/models"
)

var openDatabase = func() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return db.Configure(cfg.Database)
}

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintln(os.Stderr, "usage: import_formula FILE [OWNER_EMAIL]")
		os.Exit(2)
	}

	ownerEmail := os.Getenv("CRUMB_IMPORT_OWNER_EMAIL")
	if len(os.Args) == 3 {
		ownerEmail = os.Args[2]
	}

	if err := run(context.Background(), os.Args[1], ownerEmail, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path, ownerEmail string, out io.Writer) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("formula sheet path must not be empty")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("locate formula sheet: %w", err)
	}

	f, err := readFormula(ctx, path)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	database, err := openDatabase()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	ownerID, err := resolveImportOwner(ctx, database, ownerEmail)
	if err != nil {
		return fmt.Errorf("resolve owner: %w", err)
	}

	saved, _, err := store.New(database).Create(ctx, ownerID, f)
	if err != nil {
		return fmt.Errorf("save formula: %w", err)
	}
	fmt.Fprintf(out, "Imported %q (%s) from %s\n", saved.Name, saved.ID, filepath.Base(path))
	return nil
}

func readFormula(ctx context.Context, path string) (models.Formula, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Formula{}, fmt.Errorf("read formula sheet: %w", err)
	}
	if len(data) > importer.MaxUploadSize {
		return models.Formula{}, fmt.Errorf("formula sheet exceeds %d bytes", importer.MaxUploadSize)
	}
	return importer.FromUpload(ctx, data, importer.MimeTypeFromName(path))
}

func resolveImportOwner(ctx context.Context, db *gorm.DB, email string) (uint, error) {
	if db == nil {
		return 0, fmt.Errorf("database handle is nil")
	}

	email = strings.TrimSpace(email)
	if email != "" {
		var user models.User
		if err := db.WithContext(ctx).Where("lower(email) = ?", strings.ToLower(email)).First(&user).Error; err != nil {
			return 0, fmt.Errorf("find owner by email %q: %w", strings.ToLower(email), err)
		}
		return user.ID, nil
	}

	var user models.User
	if err := db.WithContext(ctx).Order("id asc").First(&user).Error; err != nil {
		return 0, fmt.Errorf("find default owner: %w", err)
	}
	return user.ID, nil
}
