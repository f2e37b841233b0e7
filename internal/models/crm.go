package models

// Lead is a prospective customer record.
type Lead struct {
	BaseModel

	OwnerID uint   `gorm:"not null;index" json:"owner_id"`
	Name    string `gorm:"not null" json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"omitempty,email"`
	Company string `json:"company"`
	Status  string `gorm:"type:varchar(32);default:new" json:"status"`
}

// Contact is a person the organisation interacts with.
type Contact struct {
	BaseModel

	OwnerID   uint   `gorm:"not null;index" json:"owner_id"`
	AccountID *uint  `gorm:"index" json:"account_id,omitempty"`
	Name      string `gorm:"not null" json:"name" validate:"required,max=255"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Account is a customer organisation.
type Account struct {
	BaseModel

	OwnerID  uint   `gorm:"not null;index" json:"owner_id"`
	Name     string `gorm:"not null" json:"name" validate:"required,max=255"`
	Industry string `json:"industry"`
	Website  string `json:"website"`
}

// Opportunity is a potential deal tied to an account.
type Opportunity struct {
	BaseModel

	OwnerID   uint    `gorm:"not null;index" json:"owner_id"`
	AccountID *uint   `gorm:"index" json:"account_id,omitempty"`
	Name      string  `gorm:"not null" json:"name" validate:"required,max=255"`
	Stage     string  `gorm:"type:varchar(32);default:prospecting" json:"stage"`
	Amount    float64 `json:"amount" validate:"gte=0"`
}
