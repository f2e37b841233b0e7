package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/bizsuite/internal/crm"
	"github.com/charlesng35/bizsuite/internal/database/testutil"
	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

type serviceFixture struct {
	db          *gorm.DB
	store       *permissions.GormStore
	registry    *permissions.EntityRegistry
	repos       *crm.Repositories
	authorizer  *permissions.Authorizer
	audit       *AuditService
	users       *UserService
	perms       *PermissionService
	teams       *TeamService
	assignments *AssignmentService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	store, err := permissions.NewGormStore(db)
	require.NoError(t, err)

	registry := permissions.NewEntityRegistry()
	repos, err := crm.RegisterEntities(registry, db)
	require.NoError(t, err)

	resolver, err := permissions.NewResolver(registry, store)
	require.NoError(t, err)
	authorizer, err := permissions.NewAuthorizer(store, resolver)
	require.NoError(t, err)

	audit, err := NewAuditService(db)
	require.NoError(t, err)
	users, err := NewUserService(db, audit)
	require.NoError(t, err)
	perms, err := NewPermissionService(store, users, audit)
	require.NoError(t, err)
	teams, err := NewTeamService(store, users, audit)
	require.NoError(t, err)
	assignments, err := NewAssignmentService(store, registry, users, audit)
	require.NoError(t, err)

	return &serviceFixture{
		db:          db,
		store:       store,
		registry:    registry,
		repos:       repos,
		authorizer:  authorizer,
		audit:       audit,
		users:       users,
		perms:       perms,
		teams:       teams,
		assignments: assignments,
	}
}

func (f *serviceFixture) createUser(t *testing.T, username string, role permissions.Role) *models.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), CreateUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct-horse",
		Role:     string(role),
	})
	require.NoError(t, err)
	return user
}

func asUser(user *models.User) context.Context {
	role, _ := permissions.ParseRole(user.Role)
	return permissions.WithPrincipal(context.Background(), permissions.Principal{UserID: user.ID, Role: role})
}

func (f *serviceFixture) auditActions(t *testing.T) []string {
	t.Helper()
	logs, _, err := f.audit.List(context.Background(), AuditListOptions{PageSize: 200})
	require.NoError(t, err)
	actions := make([]string, 0, len(logs))
	for _, entry := range logs {
		actions = append(actions, entry.Action)
	}
	return actions
}
