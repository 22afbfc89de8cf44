package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/srynko/teamspace/internal/models"
	"github.com/srynko/teamspace/pkg/logger"
	"gorm.io/gorm"
)

func (s *Service) handleMembershipCreated(ctx context.Context, data json.RawMessage) error {
	m, err := s.parseMembership(data)
	if err != nil {
		return err
	}

	member := models.WorkspaceMember{
		UserID:      m.UserID,
		WorkspaceID: m.WorkspaceID,
		Role:        m.Role,
	}

	err = s.db.WithContext(ctx).Create(&member).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Already a member: redelivery or a concurrent duplicate insert.
		logger.Debug().
			Str("user_id", m.UserID).
			Str("workspace_id", m.WorkspaceID).
			Msg("membership already exists, treating create as applied")
		return nil
	}
	return err
}

func (s *Service) handleMembershipUpdated(ctx context.Context, data json.RawMessage) error {
	m, err := s.parseMembership(data)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.WorkspaceMember{}).
		Where("user_id = ? AND workspace_id = ?", m.UserID, m.WorkspaceID).
		Update("role", m.Role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.Warn().
			Str("user_id", m.UserID).
			Str("workspace_id", m.WorkspaceID).
			Msg("membership.updated for unknown membership, skipping")
	}
	return nil
}

func (s *Service) handleMembershipDeleted(ctx context.Context, data json.RawMessage) error {
	var d MembershipData
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("malformed membership payload: %w", err)
	}

	// Deletion only needs the key pair; the role field may be absent.
	userID := d.UserID
	if userID == "" && d.PublicUserData != nil {
		userID = d.PublicUserData.UserID
	}
	workspaceID := d.OrganizationID
	if workspaceID == "" && d.Organization != nil {
		workspaceID = d.Organization.ID
	}
	if userID == "" || workspaceID == "" {
		return fmt.Errorf("membership payload missing user or organization id")
	}

	return s.db.WithContext(ctx).
		Where("user_id = ? AND workspace_id = ?", userID, workspaceID).
		Delete(&models.WorkspaceMember{}).Error
}

func (s *Service) parseMembership(data json.RawMessage) (*Membership, error) {
	var d MembershipData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("malformed membership payload: %w", err)
	}
	return d.Normalize(s.cfg.IDPrecedence)
}
