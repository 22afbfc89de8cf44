package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/srynko/teamspace/internal/config"
	"github.com/srynko/teamspace/pkg/logger"
)

const (
	TaskTypeSyncEvent = "webhook:sync_event"
)

// EventTask carries one webhook delivery through the queue to the sync
// processor. EventID references the WebhookEvent bookkeeping row.
type EventTask struct {
	EventID    uint            `json:"event_id"`
	DeliveryID string          `json:"delivery_id"`
	EventType  string          `json:"event_type"`
	Data       json.RawMessage `json:"data"`
}

// EventProcessor applies one delivery to the store.
type EventProcessor func(ctx context.Context, task *EventTask) error

// EventQueue defines the interface for webhook event processing.
type EventQueue interface {
	// Enqueue hands a delivery to the queue. In sync mode the delivery is
	// processed inline and the processor's error is returned, so the HTTP
	// status reported to the provider reflects the handler outcome.
	Enqueue(ctx context.Context, task *EventTask) error
	// IsAsync returns true if the queue processes deliveries asynchronously.
	IsAsync() bool
	// Close gracefully shuts down the queue.
	Close() error
}

var (
	globalEventQueue EventQueue
	eventQueueOnce   sync.Once
)

// InitEventQueue initializes the global event queue based on config.
func InitEventQueue(cfg *config.Config) EventQueue {
	eventQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncEventQueue(&cfg.Redis)
			if err != nil {
				logger.Infof("[EventQueue] Redis unavailable, falling back to sync mode: %v", err)
				globalEventQueue = NewSyncEventQueue()
			} else {
				logger.Infof("[EventQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
				globalEventQueue = queue
			}
		} else {
			logger.Infof("[EventQueue] Sync queue initialized (Redis disabled)")
			globalEventQueue = NewSyncEventQueue()
		}
	})
	return globalEventQueue
}

// GetEventQueue returns the global event queue instance.
func GetEventQueue() EventQueue {
	return globalEventQueue
}

// AsyncEventQueue implements EventQueue using asynq (Redis-based).
type AsyncEventQueue struct {
	client *asynq.Client
}

// NewAsyncEventQueue creates a new Redis-based async queue.
func NewAsyncEventQueue(cfg *config.RedisConfig) (*AsyncEventQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Verify the Redis connection before committing to async mode.
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncEventQueue{client: client}, nil
}

// Enqueue adds a delivery to the async queue. The provider is acknowledged
// immediately; asynq's retry policy covers processor failures.
func (q *AsyncEventQueue) Enqueue(_ context.Context, task *EventTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeSyncEvent, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(5),
	)
	if err != nil {
		return err
	}

	logger.Infof("[EventQueue] Delivery enqueued: id=%s, event_type=%s", info.ID, task.EventType)
	return nil
}

func (q *AsyncEventQueue) IsAsync() bool {
	return true
}

func (q *AsyncEventQueue) Close() error {
	return q.client.Close()
}

// SyncEventQueue implements EventQueue with inline processing (no Redis).
type SyncEventQueue struct {
	processor EventProcessor
}

// NewSyncEventQueue creates a new synchronous queue.
func NewSyncEventQueue() *SyncEventQueue {
	return &SyncEventQueue{}
}

// SetProcessor sets the function that applies deliveries.
func (q *SyncEventQueue) SetProcessor(processor EventProcessor) {
	q.processor = processor
}

// Enqueue processes the delivery inline and returns the processor's error.
// The provider only gets a 2xx when the handler completed, which is what
// drives its redelivery behavior.
func (q *SyncEventQueue) Enqueue(ctx context.Context, task *EventTask) error {
	if q.processor == nil {
		logger.Warnf("[EventQueue] No processor set, delivery %s dropped", task.DeliveryID)
		return nil
	}
	return q.processor(ctx, task)
}

func (q *SyncEventQueue) IsAsync() bool {
	return false
}

func (q *SyncEventQueue) Close() error {
	return nil
}
