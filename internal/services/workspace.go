package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/srynko/teamspace/internal/models"
	"github.com/srynko/teamspace/pkg/response"
	"gorm.io/gorm"
)

type WorkspaceService struct {
	db *gorm.DB
}

func NewWorkspaceService(db *gorm.DB) *WorkspaceService {
	return &WorkspaceService{db: db}
}

// ListForUser returns every workspace the user is a member of, with members,
// owner, and the project/task/comment tree preloaded.
func (s *WorkspaceService) ListForUser(ctx context.Context, userID string) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	err := s.db.WithContext(ctx).
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ?", userID).
		Preload("Members.User").
		Preload("Owner").
		Preload("Projects.Tasks.Assignee").
		Preload("Projects.Tasks.Comments.Author").
		Find(&workspaces).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

type AddMemberRequest struct {
	Email       string `json:"email" binding:"required"`
	Role        string `json:"role" binding:"required"`
	WorkspaceID string `json:"workspace_id" binding:"required"`
	Message     string `json:"message"`
}

// AddMember invites the user with the given email into a workspace. Only an
// ADMIN member of the workspace may invite.
func (s *WorkspaceService) AddMember(ctx context.Context, actorID string, req *AddMemberRequest) (*models.WorkspaceMember, error) {
	if req.Role != models.RoleAdmin && req.Role != models.RoleMember {
		return nil, response.NewBadRequest("invalid role: " + req.Role)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	var workspace models.Workspace
	if err := s.db.WithContext(ctx).First(&workspace, "id = ?", req.WorkspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("workspace not found")
		}
		return nil, err
	}

	var actorAdmin int64
	if err := s.db.WithContext(ctx).Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ? AND role = ?", workspace.ID, actorID, models.RoleAdmin).
		Count(&actorAdmin).Error; err != nil {
		return nil, err
	}
	if actorAdmin == 0 {
		return nil, response.NewForbidden("only admins can add members")
	}

	member := &models.WorkspaceMember{
		UserID:      user.ID,
		WorkspaceID: workspace.ID,
		Role:        req.Role,
		Message:     req.Message,
	}
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("user is already a member")
		}
		return nil, err
	}

	member.User = &user
	return member, nil
}
