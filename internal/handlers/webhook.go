package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/srynko/teamspace/internal/config"
	"github.com/srynko/teamspace/internal/models"
	"github.com/srynko/teamspace/internal/services"
	"github.com/srynko/teamspace/internal/services/sync"
	"gorm.io/gorm"
)

type WebhookHandler struct {
	db    *gorm.DB
	cfg   *config.WebhookConfig
	queue services.EventQueue
}

func NewWebhookHandler(db *gorm.DB, cfg *config.WebhookConfig, queue services.EventQueue) *WebhookHandler {
	return &WebhookHandler{
		db:    db,
		cfg:   cfg,
		queue: queue,
	}
}

// HandleClerkWebhook receives a signed identity-provider event, verifies its
// signature, and routes it to the sync layer. A non-2xx response makes the
// provider redeliver, so handler failures must surface here.
func (h *WebhookHandler) HandleClerkWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	deliveryID := c.GetHeader("svix-id")
	if h.cfg.SigningSecret != "" {
		timestamp := c.GetHeader("svix-timestamp")
		signature := c.GetHeader("svix-signature")
		if !sync.VerifySignature(h.cfg.SigningSecret, deliveryID, timestamp, body, signature) {
			services.LogWarning("Webhook", "InvalidSignature", "Invalid webhook signature", nil, c.ClientIP(), c.GetHeader("User-Agent"), map[string]interface{}{
				"delivery_id": deliveryID,
			})
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook signature"})
			return
		}
	}
	if deliveryID == "" {
		// Unsigned local deliveries still get a unique bookkeeping id.
		deliveryID = "local_" + uuid.NewString()
	}

	var evt sync.Event
	if err := json.Unmarshal(body, &evt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse body"})
		return
	}
	if evt.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event type missing"})
		return
	}

	record := models.WebhookEvent{
		DeliveryID: deliveryID,
		EventType:  evt.Type,
		Status:     models.EventStatusReceived,
	}

	// Unknown types are acknowledged so the provider does not retry them.
	if !sync.KnownEventType(evt.Type) {
		record.Status = models.EventStatusIgnored
		h.db.Create(&record)
		services.LogInfo("Webhook", "Ignored", "No handler for event type", nil, c.ClientIP(), c.GetHeader("User-Agent"), map[string]interface{}{
			"delivery_id": deliveryID,
			"event_type":  evt.Type,
		})
		c.JSON(http.StatusOK, gin.H{"message": "event ignored", "type": evt.Type})
		return
	}

	if err := h.db.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record event"})
		return
	}

	task := &services.EventTask{
		EventID:    record.ID,
		DeliveryID: deliveryID,
		EventType:  evt.Type,
		Data:       evt.Data,
	}

	err = h.queue.Enqueue(c.Request.Context(), task)
	switch {
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
	case h.queue.IsAsync():
		c.JSON(http.StatusAccepted, gin.H{"message": "event accepted"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "event processed"})
	}
}
