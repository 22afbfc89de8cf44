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

func (s *Service) handleUserCreated(ctx context.Context, data json.RawMessage) error {
	var d UserData
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("malformed user payload: %w", err)
	}
	if d.ID == "" {
		return fmt.Errorf("user payload missing id")
	}

	user := models.User{
		ID:       d.ID,
		Email:    primaryEmail(d.EmailAddresses),
		Name:     displayName(d.FirstName, d.LastName, d.Username),
		Username: d.Username,
		Avatar:   d.ImageURL,
	}

	err := s.db.WithContext(ctx).Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Redelivery of an already-applied event.
		logger.Debug().Str("user_id", d.ID).Msg("user already exists, treating create as applied")
		return nil
	}
	return err
}

func (s *Service) handleUserUpdated(ctx context.Context, data json.RawMessage) error {
	var d UserData
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("malformed user payload: %w", err)
	}
	if d.ID == "" {
		return fmt.Errorf("user payload missing id")
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"email":    primaryEmail(d.EmailAddresses),
			"name":     displayName(d.FirstName, d.LastName, d.Username),
			"username": d.Username,
			"avatar":   d.ImageURL,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// The create event may not have arrived yet; tolerated as a no-op.
		logger.Warn().Str("user_id", d.ID).Msg("user.updated for unknown user, skipping")
	}
	return nil
}

func (s *Service) handleUserDeleted(ctx context.Context, data json.RawMessage) error {
	var d struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("malformed user payload: %w", err)
	}
	if d.ID == "" {
		return fmt.Errorf("user payload missing id")
	}

	// Deleting an absent row is a successful no-op: this store is a mirror,
	// not the source of truth.
	return s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", d.ID).Error
}
