package permissions

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/charlesng35/bizsuite/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Module{},
		&models.RolePermission{},
		&models.UserPermission{},
		&models.Team{},
		&models.TeamMember{},
		&models.Assignment{},
	))
	return db
}

// forEachStore runs fn against both backends.
func forEachStore(t *testing.T, fn func(t *testing.T, store Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("gorm", func(t *testing.T) {
		store, err := NewGormStore(openTestDB(t))
		require.NoError(t, err)
		fn(t, store)
	})
}

// fakeOwners is an in-memory entity table keyed by ID.
type fakeOwners struct {
	mu     sync.Mutex
	owners map[uint]uint
	err    error
}

func (f *fakeOwners) set(id, owner uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owners == nil {
		f.owners = make(map[uint]uint)
	}
	f.owners[id] = owner
}

func (f *fakeOwners) lookup(ctx context.Context, id uint) (*EntityRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	owner, ok := f.owners[id]
	if !ok {
		return nil, nil
	}
	return &EntityRef{OwnerID: owner}, nil
}

type harness struct {
	store      Store
	leads      *fakeOwners
	registry   *EntityRegistry
	authorizer *Authorizer
}

func newHarness(t *testing.T, store Store, opts ...Option) *harness {
	t.Helper()

	leads := &fakeOwners{}
	registry := NewEntityRegistry()
	require.NoError(t, registry.Register(EntityLead, leads.lookup))

	resolver, err := NewResolver(registry, store)
	require.NoError(t, err)

	authz, err := NewAuthorizer(store, resolver, opts...)
	require.NoError(t, err)

	return &harness{store: store, leads: leads, registry: registry, authorizer: authz}
}

func seededHarness(t *testing.T, store Store, opts ...Option) *harness {
	t.Helper()
	seeded, err := Seed(context.Background(), store)
	require.NoError(t, err)
	require.True(t, seeded)
	return newHarness(t, store, opts...)
}

func as(userID uint, role Role) context.Context {
	return WithPrincipal(context.Background(), Principal{UserID: userID, Role: role})
}

func mustModule(t *testing.T, store ModuleLookup, name string) *models.Module {
	t.Helper()
	mod, err := store.GetModuleByName(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, mod)
	return mod
}
