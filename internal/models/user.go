package models

import (
	"time"
)

// User mirrors an identity-provider user. Rows are only ever written by the
// webhook sync handlers; application code never creates users directly.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"` // provider-issued id
	Email     *string   `gorm:"uniqueIndex;size:255" json:"email"`
	Name      *string   `gorm:"size:200" json:"name"`
	Username  *string   `gorm:"size:100" json:"username"`
	Avatar    string    `gorm:"size:500" json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
