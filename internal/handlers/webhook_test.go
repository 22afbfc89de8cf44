package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/srynko/teamspace/internal/config"
	"github.com/srynko/teamspace/internal/models"
	"github.com/srynko/teamspace/internal/services"
	"github.com/srynko/teamspace/internal/services/sync"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var webhookTestSecret = "whsec_" +
	base64.StdEncoding.EncodeToString([]byte("test-signing-key-0123456789abcdef"))

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Project{},
		&models.Task{},
		&models.Comment{},
		&models.WebhookEvent{},
		&models.SystemLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// newWebhookRouter wires the handler to an inline queue backed by the real
// sync service, as production does without Redis.
func newWebhookRouter(t *testing.T, secret string) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	cfg := &config.WebhookConfig{SigningSecret: secret, IDPrecedence: config.IDPrecedenceNested}

	syncService := sync.NewService(db, cfg)
	queue := services.NewSyncEventQueue()
	queue.SetProcessor(syncService.ProcessEvent)

	r := gin.New()
	r.POST("/webhooks/clerk", NewWebhookHandler(db, cfg, queue).HandleClerkWebhook)
	return r, db
}

func signedRequest(secret, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", strings.NewReader(body))
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("svix-id", "msg_test")
	req.Header.Set("svix-timestamp", ts)
	req.Header.Set("svix-signature", sync.SignPayload(secret, "msg_test", ts, []byte(body)))
	return req
}

func TestHandleClerkWebhook(t *testing.T) {
	r, db := newWebhookRouter(t, webhookTestSecret)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(webhookTestSecret,
		`{"type":"user.created","data":{"id":"u1","username":"ada"}}`))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	var user models.User
	if err := db.First(&user, "id = ?", "u1").Error; err != nil {
		t.Errorf("user not synced: %v", err)
	}

	var event models.WebhookEvent
	if err := db.First(&event, "delivery_id = ?", "msg_test").Error; err != nil {
		t.Fatalf("delivery not recorded: %v", err)
	}
	if event.Status != models.EventStatusProcessed {
		t.Errorf("event status = %q, want processed", event.Status)
	}
}

func TestHandleClerkWebhook_BadSignature(t *testing.T) {
	r, db := newWebhookRouter(t, webhookTestSecret)
	body := `{"type":"user.created","data":{"id":"u1"}}`

	req := signedRequest(webhookTestSecret, body)
	req.Header.Set("svix-signature", "v1,AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Error("rejected delivery must not touch the store")
	}
}

func TestHandleClerkWebhook_NoSecretSkipsVerification(t *testing.T) {
	r, db := newWebhookRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk",
		strings.NewReader(`{"type":"user.created","data":{"id":"u1","username":"ada"}}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.User{}).Where("id = ?", "u1").Count(&count)
	if count != 1 {
		t.Errorf("user row count = %d, want 1", count)
	}
}

func TestHandleClerkWebhook_MalformedBody(t *testing.T) {
	r, _ := newWebhookRouter(t, webhookTestSecret)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(webhookTestSecret, `{not json`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleClerkWebhook_MissingType(t *testing.T) {
	r, _ := newWebhookRouter(t, webhookTestSecret)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(webhookTestSecret, `{"data":{"id":"u1"}}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleClerkWebhook_UnknownType(t *testing.T) {
	r, db := newWebhookRouter(t, webhookTestSecret)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(webhookTestSecret, `{"type":"session.created","data":{}}`))

	// Unknown types are acknowledged so the provider stops redelivering.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var event models.WebhookEvent
	if err := db.First(&event, "delivery_id = ?", "msg_test").Error; err != nil {
		t.Fatalf("delivery not recorded: %v", err)
	}
	if event.Status != models.EventStatusIgnored {
		t.Errorf("event status = %q, want ignored", event.Status)
	}
}

func TestHandleClerkWebhook_HandlerFailure(t *testing.T) {
	r, db := newWebhookRouter(t, webhookTestSecret)

	// Missing user id makes the sync handler fail; the provider must see a
	// non-2xx so it redelivers.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(webhookTestSecret,
		`{"type":"user.created","data":{"first_name":"A"}}`))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var event models.WebhookEvent
	if err := db.First(&event, "delivery_id = ?", "msg_test").Error; err != nil {
		t.Fatalf("delivery not recorded: %v", err)
	}
	if event.Status != models.EventStatusFailed {
		t.Errorf("event status = %q, want failed", event.Status)
	}
}
