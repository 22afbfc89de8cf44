package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/srynko/teamspace/internal/config"
	"github.com/srynko/teamspace/internal/models"
	"github.com/srynko/teamspace/internal/services"
	"gorm.io/gorm"
)

// ErrUnhandledEventType marks an event type with no registered handler. Such
// events are acknowledged to the provider and logged, never retried.
var ErrUnhandledEventType = errors.New("unhandled event type")

// HandlerFunc applies one lifecycle event's data object to the store.
type HandlerFunc func(ctx context.Context, data json.RawMessage) error

// Service keeps the relational mirror in sync with identity-provider events.
// Each event is handled as an independent, stateless unit; the store's unique
// constraints are the only concurrency safety net.
type Service struct {
	db       *gorm.DB
	cfg      *config.WebhookConfig
	handlers map[string]HandlerFunc
}

// NewService creates a sync Service with all lifecycle handlers registered.
func NewService(db *gorm.DB, cfg *config.WebhookConfig) *Service {
	s := &Service{
		db:  db,
		cfg: cfg,
	}
	s.handlers = map[string]HandlerFunc{
		EventUserCreated:       s.handleUserCreated,
		EventUserUpdated:       s.handleUserUpdated,
		EventUserDeleted:       s.handleUserDeleted,
		EventOrgCreated:        s.handleOrganizationCreated,
		EventOrgUpdated:        s.handleOrganizationUpdated,
		EventOrgDeleted:        s.handleOrganizationDeleted,
		EventMembershipCreated: s.handleMembershipCreated,
		EventMembershipUpdated: s.handleMembershipUpdated,
		EventMembershipDeleted: s.handleMembershipDeleted,
	}
	return s
}

// ValidateHandlers verifies every expected event type has a registered
// handler. Called at startup; a gap is a programming error and fatal.
func (s *Service) ValidateHandlers() error {
	for _, eventType := range ExpectedEventTypes {
		if _, ok := s.handlers[eventType]; !ok {
			return fmt.Errorf("no handler registered for event type %q", eventType)
		}
	}
	return nil
}

// Dispatch routes an event envelope to its handler. Handler errors propagate
// so the delivery layer reports failure and the provider redelivers.
func (s *Service) Dispatch(ctx context.Context, evt *Event) error {
	if evt.Type == "" {
		return fmt.Errorf("event has no type")
	}
	handler, ok := s.handlers[evt.Type]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnhandledEventType, evt.Type)
	}
	return handler(ctx, evt.Data)
}

// ProcessEvent consumes one queued delivery: dispatches it and records the
// outcome on its WebhookEvent row. Used as the event queue processor.
func (s *Service) ProcessEvent(ctx context.Context, task *services.EventTask) error {
	err := s.Dispatch(ctx, &Event{Type: task.EventType, Data: task.Data})

	switch {
	case errors.Is(err, ErrUnhandledEventType):
		s.markEvent(task.EventID, models.EventStatusIgnored, "")
		services.LogInfo("Webhook", "Ignored", "No handler for event type", nil, "", "", map[string]interface{}{
			"delivery_id": task.DeliveryID,
			"event_type":  task.EventType,
		})
		return nil
	case err != nil:
		s.markEvent(task.EventID, models.EventStatusFailed, err.Error())
		services.LogError("Webhook", "SyncFailed", err.Error(), nil, "", "", map[string]interface{}{
			"delivery_id": task.DeliveryID,
			"event_type":  task.EventType,
		})
		return err
	default:
		s.markEvent(task.EventID, models.EventStatusProcessed, "")
		return nil
	}
}

func (s *Service) markEvent(eventID uint, status, errMsg string) {
	if eventID == 0 {
		return
	}
	s.db.Model(&models.WebhookEvent{}).Where("id = ?", eventID).
		Updates(map[string]interface{}{"status": status, "error": errMsg})
}
