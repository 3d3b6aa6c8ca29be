package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// Migrate creates the products and users tables with their unique indexes.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&productRecord{}, &userRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
