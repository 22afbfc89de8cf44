package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/srynko/teamspace/internal/models"
	"github.com/srynko/teamspace/internal/services"
	"github.com/srynko/teamspace/pkg/logger"
	"gorm.io/gorm"
)

func (s *Service) handleOrganizationCreated(ctx context.Context, data json.RawMessage) error {
	d, err := parseOrganization(data)
	if err != nil {
		return err
	}

	if err := s.upsertWorkspace(ctx, d); err != nil {
		return err
	}

	// Best-effort: the owner's user.created event may not have arrived yet.
	s.ensureOwnerMembership(ctx, d.CreatedBy, d.ID)
	return nil
}

func (s *Service) handleOrganizationUpdated(ctx context.Context, data json.RawMessage) error {
	d, err := parseOrganization(data)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.Workspace{}).Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"name":   d.Name,
			"slug":   d.Slug,
			"avatar": d.Avatar(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// The provider occasionally delivers updated as the first sight of a new
	// organization. Insert it, but leave ownership membership to the created
	// event: updated must not touch membership.
	if d.CreatedBy == "" {
		logger.Warn().Str("workspace_id", d.ID).Msg("organization.updated for unknown workspace without created_by, skipping")
		return nil
	}
	return s.upsertWorkspace(ctx, d)
}

func (s *Service) handleOrganizationDeleted(ctx context.Context, data json.RawMessage) error {
	var d struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("malformed organization payload: %w", err)
	}
	if d.ID == "" {
		return fmt.Errorf("organization payload missing id")
	}

	// Member rows cascade via the store's foreign key constraint.
	return s.db.WithContext(ctx).Delete(&models.Workspace{}, "id = ?", d.ID).Error
}

func parseOrganization(data json.RawMessage) (*OrganizationData, error) {
	var d OrganizationData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("malformed organization payload: %w", err)
	}
	if d.ID == "" {
		return nil, fmt.Errorf("organization payload missing id")
	}
	return &d, nil
}

// upsertWorkspace inserts the workspace, or updates its mutable fields when a
// prior delivery already created it.
func (s *Service) upsertWorkspace(ctx context.Context, d *OrganizationData) error {
	workspace := models.Workspace{
		ID:      d.ID,
		Name:    d.Name,
		Slug:    d.Slug,
		OwnerID: d.CreatedBy,
		Avatar:  d.Avatar(),
	}

	err := s.db.WithContext(ctx).Create(&workspace).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	// Already present: refresh mutable fields only, never ownership.
	return s.db.WithContext(ctx).Model(&models.Workspace{}).Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"name":   d.Name,
			"slug":   d.Slug,
			"avatar": d.Avatar(),
		}).Error
}

// ensureOwnerMembership inserts an ADMIN member row for the workspace owner
// when one does not exist yet. The owner's user row may be missing because
// the provider does not order organization.created after user.created; in
// that case the membership is skipped and is NOT reconciled later.
func (s *Service) ensureOwnerMembership(ctx context.Context, ownerID, workspaceID string) {
	if ownerID == "" {
		return
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.WorkspaceMember{}).
		Where("user_id = ? AND workspace_id = ?", ownerID, workspaceID).
		Count(&count).Error; err != nil || count > 0 {
		return
	}

	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, "id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn().
				Str("workspace_id", workspaceID).
				Str("owner_id", ownerID).
				Msg("owner user not yet synced, skipping admin membership")
			services.LogWarning("Webhook", "OwnerNotSynced",
				"Owner user row absent at organization creation, admin membership left unestablished",
				nil, "", "", map[string]interface{}{
					"workspace_id": workspaceID,
					"owner_id":     ownerID,
				})
		}
		return
	}

	member := models.WorkspaceMember{
		UserID:      ownerID,
		WorkspaceID: workspaceID,
		Role:        models.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		logger.Error().Err(err).
			Str("workspace_id", workspaceID).
			Str("owner_id", ownerID).
			Msg("failed to create owner membership")
	}
}
