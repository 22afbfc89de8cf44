package models

import (
	"time"
)

// Webhook event processing statuses
const (
	EventStatusReceived  = "received"
	EventStatusProcessed = "processed"
	EventStatusIgnored   = "ignored"
	EventStatusFailed    = "failed"
)

// WebhookEvent records one webhook delivery from the identity provider.
// DeliveryID is the provider's message id (svix-id header); it repeats across
// redeliveries of the same event, so it is indexed but not unique.
type WebhookEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DeliveryID string    `gorm:"size:100;index" json:"delivery_id"`
	EventType  string    `gorm:"size:100;index;not null" json:"event_type"`
	Status     string    `gorm:"size:20;default:received" json:"status"`
	Error      string    `gorm:"type:text" json:"error"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (WebhookEvent) TableName() string { return "webhook_events" }
