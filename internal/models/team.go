package models

type Team struct {
	BaseModel

	Name        string `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"`
	Description string `json:"description"`

	Members []TeamMember `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

// TeamMember links a user to a team. A user may belong to many teams.
type TeamMember struct {
	BaseModel

	TeamID uint `gorm:"not null;uniqueIndex:idx_team_member,priority:1" json:"team_id"`
	UserID uint `gorm:"not null;uniqueIndex:idx_team_member,priority:2;index" json:"user_id"`
}
