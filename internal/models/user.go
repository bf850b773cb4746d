package models

import (
	"time"

	"gorm.io/gorm"
)

// UserAuth represents a platform user (farmer, distributor, consumer, ...).
// Standardized: Go (PascalCase) -> DB (snake_case) -> JSON (camelCase)
type UserAuth struct {
	ID            string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email         string     `gorm:"unique;not null" json:"email"`
	Password      string     `gorm:"not null" json:"-"`
	Name          string     `json:"name"`
	Role          Role       `gorm:"not null" json:"role"`
	WalletAddress string     `json:"walletAddress,omitempty"`
	IsActive      bool       `gorm:"default:true" json:"isActive"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for UserAuth model
func (UserAuth) TableName() string {
	return "user_auths"
}
