package models

// Module is a named feature area subject to access control (e.g. "invoices").
type Module struct {
	BaseModel

	Name        string `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	DisplayName string `gorm:"type:varchar(128);not null" json:"display_name"`
	Description string `json:"description"`
	OrderIndex  int    `gorm:"default:0" json:"order_index"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}
