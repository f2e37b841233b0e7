package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Module{},
		&models.RolePermission{},
		&models.UserPermission{},
		&models.Team{},
		&models.TeamMember{},
		&models.Assignment{},
		&models.Lead{},
		&models.Contact{},
		&models.Account{},
		&models.Opportunity{},
		&models.AuditLog{},
	)
}

// SeedData populates the module catalog and default role policies once.
// Subsequent calls find existing modules and leave every row untouched.
func SeedData(ctx context.Context, db *gorm.DB) (bool, error) {
	store, err := permissions.NewGormStore(db)
	if err != nil {
		return false, err
	}
	return permissions.Seed(ctx, store)
}
