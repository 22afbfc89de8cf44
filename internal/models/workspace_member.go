package models

import (
	"time"
)

// Workspace member roles. Role values are a closed set; anything else must be
// normalized or rejected before persistence.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// WorkspaceMember associates a User with a Workspace at a given role.
// The (user_id, workspace_id) pair is unique: at most one role per user per
// workspace. Rows cascade when their workspace or user is deleted.
type WorkspaceMember struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      string     `gorm:"uniqueIndex:idx_workspace_user;size:64;not null" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	WorkspaceID string     `gorm:"uniqueIndex:idx_workspace_user;size:64;not null" json:"workspace_id"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:CASCADE" json:"workspace,omitempty"`
	Role        string     `gorm:"size:20;default:MEMBER;not null" json:"role"`
	Message     string     `gorm:"size:500" json:"message"` // optional invitation message
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (WorkspaceMember) TableName() string { return "workspace_members" }
