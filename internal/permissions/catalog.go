package permissions

import "strings"

// Action is one of the fixed operation kinds a policy can allow or deny.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
	ActionImport Action = "import"
	ActionAssign Action = "assign"
)

var allActions = []Action{
	ActionView,
	ActionCreate,
	ActionUpdate,
	ActionDelete,
	ActionExport,
	ActionImport,
	ActionAssign,
}

// AllActions returns the closed action vocabulary in canonical order.
func AllActions() []Action {
	return append([]Action(nil), allActions...)
}

// ParseAction matches value exactly against the action vocabulary.
func ParseAction(value string) (Action, bool) {
	for _, action := range allActions {
		if string(action) == value {
			return action, true
		}
	}
	return "", false
}

// Role is a coarse default-permission bucket assigned to every user.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleUser     Role = "User"
	RoleReadOnly Role = "ReadOnly"
)

var allRoles = []Role{RoleAdmin, RoleManager, RoleUser, RoleReadOnly}

// AllRoles returns the fixed role set.
func AllRoles() []Role {
	return append([]Role(nil), allRoles...)
}

// ParseRole resolves a role name. Matching is case-insensitive so that
// configuration and API payloads may use "admin" or "Admin".
func ParseRole(value string) (Role, bool) {
	value = strings.TrimSpace(value)
	for _, role := range allRoles {
		if strings.EqualFold(string(role), value) {
			return role, true
		}
	}
	return "", false
}
