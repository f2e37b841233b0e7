package models

import "time"

// Assignee kinds for Assignment.AssignedToType.
const (
	AssigneeUser = "user"
	AssigneeTeam = "team"
)

// Assignment grants a user or team access to an entity beyond its owner.
// Assignments are independent of ownership and survive owner changes.
type Assignment struct {
	BaseModel

	EntityType     string    `gorm:"type:varchar(32);not null;index:idx_assignment_entity,priority:1" json:"entity_type"`
	EntityID       uint      `gorm:"not null;index:idx_assignment_entity,priority:2" json:"entity_id"`
	AssignedToType string    `gorm:"type:varchar(8);not null;index:idx_assignment_target,priority:1" json:"assigned_to_type"`
	AssignedToID   uint      `gorm:"not null;index:idx_assignment_target,priority:2" json:"assigned_to_id"`
	AssignedBy     uint      `json:"assigned_by"`
	AssignedAt     time.Time `gorm:"not null" json:"assigned_at"`
	Notes          string    `json:"notes"`
}
