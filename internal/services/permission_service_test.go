package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/bizsuite/internal/permissions"
)

func TestPermissionServiceOverrides(t *testing.T) {
	f := newServiceFixture(t)
	admin := f.createUser(t, "root", permissions.RoleAdmin)
	user := f.createUser(t, "ivy", permissions.RoleUser)
	adminCtx := asUser(admin)

	require.False(t, f.authorizer.HasPermission(asUser(user), permissions.ModuleInvoices, permissions.ActionCreate))

	row, err := f.perms.SetOverride(adminCtx, user.ID, PolicyChange{Module: "invoices", Action: "create", Allowed: true})
	require.NoError(t, err)
	require.True(t, row.IsAllowed)
	require.NotNil(t, row.GrantedBy)
	require.Equal(t, admin.ID, *row.GrantedBy)
	require.True(t, f.authorizer.HasPermission(asUser(user), permissions.ModuleInvoices, permissions.ActionCreate))

	overrides, err := f.perms.ListOverrides(adminCtx, user.ID)
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	require.NotNil(t, overrides[0].Module)
	require.Equal(t, permissions.ModuleInvoices, overrides[0].Module.Name)

	require.NoError(t, f.perms.RevokeOverride(adminCtx, user.ID, "invoices", "create"))
	require.False(t, f.authorizer.HasPermission(asUser(user), permissions.ModuleInvoices, permissions.ActionCreate))
	require.ErrorIs(t, f.perms.RevokeOverride(adminCtx, user.ID, "invoices", "create"), ErrOverrideNotFound)

	_, err = f.perms.SetOverride(adminCtx, user.ID, PolicyChange{Module: "nope", Action: "view"})
	require.ErrorIs(t, err, ErrModuleNotFound)
	_, err = f.perms.SetOverride(adminCtx, user.ID, PolicyChange{Module: "invoices", Action: "approve"})
	require.ErrorIs(t, err, ErrInvalidAction)
	_, err = f.perms.SetOverride(adminCtx, user.ID+999, PolicyChange{Module: "invoices", Action: "view"})
	require.ErrorIs(t, err, ErrUserNotFound)

	actions := f.auditActions(t)
	require.Contains(t, actions, "permission.override.set")
	require.Contains(t, actions, "permission.override.revoke")
}

func TestPermissionServiceRolePolicies(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	reader := f.createUser(t, "jo", permissions.RoleReadOnly)

	require.False(t, f.authorizer.HasPermission(asUser(reader), permissions.ModuleReports, permissions.ActionExport))

	rows, err := f.perms.SetRolePermissions(ctx, "readonly", []PolicyChange{
		{Module: "reports", Action: "export", Allowed: true},
		{Module: "dashboard", Action: "view", Allowed: false},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.True(t, f.authorizer.HasPermission(asUser(reader), permissions.ModuleReports, permissions.ActionExport))
	require.False(t, f.authorizer.HasPermission(asUser(reader), permissions.ModuleDashboard, permissions.ActionView))

	// Validation happens before any write.
	_, err = f.perms.SetRolePermissions(ctx, "ReadOnly", []PolicyChange{
		{Module: "reports", Action: "import", Allowed: true},
		{Module: "missing", Action: "view", Allowed: true},
	})
	require.ErrorIs(t, err, ErrModuleNotFound)
	require.False(t, f.authorizer.HasPermission(asUser(reader), permissions.ModuleReports, permissions.ActionImport))

	_, err = f.perms.SetRolePermissions(ctx, "Owner", []PolicyChange{{Module: "reports", Action: "view"}})
	require.ErrorIs(t, err, ErrInvalidRole)
	_, err = f.perms.SetRolePermissions(ctx, "User", nil)
	require.Error(t, err)

	listed, err := f.perms.ListRolePermissions(ctx, "ReadOnly")
	require.NoError(t, err)
	require.Len(t, listed, len(permissions.Modules())*len(permissions.AllActions()))

	modules, err := f.perms.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, len(permissions.Modules()))
	require.Equal(t, permissions.ModuleDashboard, modules[0].Name)
}
