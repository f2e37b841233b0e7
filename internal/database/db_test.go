package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Exec("SELECT 1").Error)
	require.NoError(t, Ping(context.Background(), db))
}

func TestAutoMigrateCreatesTables(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	migrator := db.Migrator()
	for _, table := range []any{
		&models.User{}, &models.Module{}, &models.RolePermission{}, &models.UserPermission{},
		&models.Team{}, &models.TeamMember{}, &models.Assignment{},
		&models.Lead{}, &models.Contact{}, &models.Account{}, &models.Opportunity{},
		&models.AuditLog{},
	} {
		require.True(t, migrator.HasTable(table), "expected table for %T", table)
	}
}

func TestAutoMigrateAndSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	seeded, err := AutoMigrateAndSeed(ctx, db)
	require.NoError(t, err)
	require.True(t, seeded)

	seeded, err = AutoMigrateAndSeed(ctx, db)
	require.NoError(t, err)
	require.False(t, seeded)

	var modules int64
	require.NoError(t, db.Model(&models.Module{}).Count(&modules).Error)
	require.EqualValues(t, len(permissions.Modules()), modules)

	var policies int64
	require.NoError(t, db.Model(&models.RolePermission{}).Count(&policies).Error)
	require.EqualValues(t, len(permissions.AllRoles())*len(permissions.Modules())*len(permissions.AllActions()), policies)

	var distinct int64
	require.NoError(t, db.Raw(
		"SELECT COUNT(*) FROM (SELECT DISTINCT role, module_id, action FROM role_permissions) t",
	).Scan(&distinct).Error)
	require.Equal(t, policies, distinct)
}

func TestAutoMigrateAndSeedRequiresDB(t *testing.T) {
	_, err := AutoMigrateAndSeed(context.Background(), nil)
	require.Error(t, err)
}
