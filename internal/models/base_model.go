package models

import "time"

// BaseModel provides shared fields for all persistent models. Identifiers are
// numeric so they can be used directly as entity IDs in access checks.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
