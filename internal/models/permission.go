package models

// RolePermission is the default allow/deny decision for a role on a module action.
type RolePermission struct {
	BaseModel

	Role      string  `gorm:"type:varchar(32);not null;uniqueIndex:idx_role_module_action,priority:1" json:"role"`
	ModuleID  uint    `gorm:"not null;uniqueIndex:idx_role_module_action,priority:2" json:"module_id"`
	Module    *Module `gorm:"constraint:OnDelete:CASCADE" json:"module,omitempty"`
	Action    string  `gorm:"type:varchar(16);not null;uniqueIndex:idx_role_module_action,priority:3" json:"action"`
	IsAllowed bool    `gorm:"not null;default:false" json:"is_allowed"`
}

// UserPermission overrides the role policy for one user on a module action.
type UserPermission struct {
	BaseModel

	UserID    uint    `gorm:"not null;uniqueIndex:idx_user_module_action,priority:1" json:"user_id"`
	ModuleID  uint    `gorm:"not null;uniqueIndex:idx_user_module_action,priority:2" json:"module_id"`
	Module    *Module `gorm:"constraint:OnDelete:CASCADE" json:"module,omitempty"`
	Action    string  `gorm:"type:varchar(16);not null;uniqueIndex:idx_user_module_action,priority:3" json:"action"`
	IsAllowed bool    `gorm:"not null;default:false" json:"is_allowed"`
	GrantedBy *uint   `json:"granted_by,omitempty"`
}
