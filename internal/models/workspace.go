package models

import (
	"time"
)

// Workspace mirrors an identity-provider organization.
type Workspace struct {
	ID        string     `gorm:"primaryKey;size:64" json:"id"` // provider-issued id
	Name      string     `gorm:"size:200;not null" json:"name"`
	Slug      string     `gorm:"size:200;index" json:"slug"`
	OwnerID   string     `gorm:"size:64;index" json:"owner_id"`
	Owner     *User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Avatar    string     `gorm:"size:500" json:"avatar"`
	Members   []WorkspaceMember `gorm:"foreignKey:WorkspaceID" json:"members,omitempty"`
	Projects  []Project  `gorm:"foreignKey:WorkspaceID" json:"projects,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Workspace) TableName() string { return "workspaces" }
