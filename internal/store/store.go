package store

import (
	"context"
	"errors"
	"time"

	"hubnet/internal/model"
)

// Store is the persistence interface used by the API server.
type Store interface {
	// Networks
	CreateNetwork(ctx context.Context, tenantID string, in model.NetworkIn, elements []model.ElementOut) (model.NetworkOut, error)
	GetNetwork(ctx context.Context, tenantID, id string) (model.NetworkOut, error)
	ListNetworks(ctx context.Context, tenantID, cursor string, limit int) ([]model.NetworkOut, string, error)

	// Optimization runs
	SaveRun(ctx context.Context, run model.RunOut) (model.RunOut, error)
	GetRun(ctx context.Context, tenantID, id string) (model.RunOut, error)
	ListRuns(ctx context.Context, tenantID, networkID, cursor string, limit int) ([]model.RunOut, string, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error)
	GetSubscriptionsForEvent(ctx context.Context, tenantID, eventType string) ([]model.Subscription, error)
	ListSubscriptions(ctx context.Context, tenantID, cursor string, limit int) ([]model.Subscription, string, error)
	DeleteSubscription(ctx context.Context, tenantID, id string) error

	// Webhook deliveries
	EnqueueWebhook(ctx context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error)
	FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error)
	MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error
	FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error

	// Optimizer config per tenant
	GetOptimizerConfig(ctx context.Context, tenantID string) (map[string]any, error)
	SaveOptimizerConfig(ctx context.Context, tenantID string, cfg map[string]any) error
}

// WebhookDelivery is one queued outbound webhook attempt.
type WebhookDelivery struct {
	ID             string
	TenantID       string
	SubscriptionID string
	EventType      string
	URL            string
	Secret         string
	Payload        []byte
	Status         string
	Attempts       int
}

var ErrNotFound = errors.New("not found")
