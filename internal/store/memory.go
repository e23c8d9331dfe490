package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"hubnet/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu         sync.Mutex
	networks   map[string]model.NetworkOut
	netByTen   map[string][]string
	runs       map[string]model.RunOut
	runByTen   map[string][]string
	subs       map[string][]model.Subscription
	deliveries map[string]*memDelivery
	optCfg     map[string]map[string]any
}

func NewMemory() *Memory {
	return &Memory{
		networks:   map[string]model.NetworkOut{},
		netByTen:   map[string][]string{},
		runs:       map[string]model.RunOut{},
		runByTen:   map[string][]string{},
		subs:       map[string][]model.Subscription{},
		deliveries: map[string]*memDelivery{},
		optCfg:     map[string]map[string]any{},
	}
}

// memDelivery augments WebhookDelivery with scheduling state.
type memDelivery struct {
	WebhookDelivery
	NextAttemptAt time.Time
	LastError     string
	ResponseCode  int
	LatencyMs     int
	DeliveredAt   *time.Time
}

func (m *Memory) CreateNetwork(ctx context.Context, tenantID string, in model.NetworkIn, elements []model.ElementOut) (model.NetworkOut, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	nw := model.NetworkOut{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		Name:          in.Name,
		TransportRate: in.TransportRate,
		Elements:      elements,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	m.networks[nw.ID] = nw
	m.netByTen[tenantID] = append(m.netByTen[tenantID], nw.ID)
	return nw, nil
}

func (m *Memory) GetNetwork(ctx context.Context, tenantID, id string) (model.NetworkOut, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	nw, ok := m.networks[id]
	if !ok || nw.TenantID != tenantID {
		return model.NetworkOut{}, ErrNotFound
	}
	return nw, nil
}

func (m *Memory) ListNetworks(ctx context.Context, tenantID, cursor string, limit int) ([]model.NetworkOut, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.netByTen[tenantID]
	start := cursorIndex(ids, cursor)
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	out := []model.NetworkOut{}
	next := ""
	for i := start; i < len(ids) && len(out) < limit; i++ {
		out = append(out, m.networks[ids[i]])
		next = ids[i]
	}
	if start+len(out) >= len(ids) {
		next = ""
	}
	return out, next, nil
}

func (m *Memory) SaveRun(ctx context.Context, run model.RunOut) (model.RunOut, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt == "" {
		run.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	m.runs[run.ID] = run
	m.runByTen[run.TenantID] = append(m.runByTen[run.TenantID], run.ID)
	return run, nil
}

func (m *Memory) GetRun(ctx context.Context, tenantID, id string) (model.RunOut, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok || run.TenantID != tenantID {
		return model.RunOut{}, ErrNotFound
	}
	return run, nil
}

func (m *Memory) ListRuns(ctx context.Context, tenantID, networkID, cursor string, limit int) ([]model.RunOut, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.runByTen[tenantID]
	start := cursorIndex(ids, cursor)
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	out := []model.RunOut{}
	last := ""
	i := start
	for ; i < len(ids) && len(out) < limit; i++ {
		run := m.runs[ids[i]]
		if networkID != "" && run.NetworkID != networkID {
			continue
		}
		out = append(out, run)
		last = ids[i]
	}
	next := ""
	if i < len(ids) {
		next = last
	}
	return out, next, nil
}

func (m *Memory) CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := model.Subscription{ID: uuid.New().String(), TenantID: req.TenantID, URL: req.URL, Events: req.Events, Secret: req.Secret}
	m.subs[req.TenantID] = append(m.subs[req.TenantID], s)
	return s, nil
}

func (m *Memory) GetSubscriptionsForEvent(ctx context.Context, tenantID, eventType string) ([]model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Subscription
	for _, s := range m.subs[tenantID] {
		for _, e := range s.Events {
			if e == eventType || e == "*" {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) ListSubscriptions(ctx context.Context, tenantID, cursor string, limit int) ([]model.Subscription, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.subs[tenantID]
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	start := 0
	if cursor != "" {
		for i, s := range subs {
			if s.ID == cursor {
				start = i + 1
				break
			}
		}
	}
	out := []model.Subscription{}
	last := ""
	for i := start; i < len(subs) && len(out) < limit; i++ {
		out = append(out, subs[i])
		last = subs[i].ID
	}
	next := ""
	if start+len(out) < len(subs) {
		next = last
	}
	return out, next, nil
}

func (m *Memory) DeleteSubscription(ctx context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.subs[tenantID]
	for i, s := range subs {
		if s.ID == id {
			m.subs[tenantID] = append(subs[:i], subs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) EnqueueWebhook(ctx context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New().String()
	m.deliveries[id] = &memDelivery{
		WebhookDelivery: WebhookDelivery{
			ID: id, TenantID: tenantID, SubscriptionID: subscriptionID,
			EventType: eventType, URL: url, Secret: secret, Payload: payload, Status: "pending",
		},
		NextAttemptAt: time.Now(),
	}
	return id, nil
}

func (m *Memory) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	out := []WebhookDelivery{}
	for _, d := range m.deliveries {
		if (d.Status == "pending" || d.Status == "retry") && !d.NextAttemptAt.After(now) {
			out = append(out, d.WebhookDelivery)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deliveries[id]
	if !ok {
		return ErrNotFound
	}
	d.Attempts++
	d.LastError = lastError
	d.ResponseCode = responseCode
	d.LatencyMs = latencyMs
	if success {
		d.Status = "delivered"
		now := time.Now()
		d.DeliveredAt = &now
	} else {
		d.Status = "retry"
		if nextAttemptAt != nil {
			d.NextAttemptAt = *nextAttemptAt
		}
	}
	return nil
}

func (m *Memory) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deliveries[id]
	if !ok {
		return ErrNotFound
	}
	d.Attempts++
	d.Status = "failed"
	d.LastError = lastError
	d.ResponseCode = responseCode
	d.LatencyMs = latencyMs
	return nil
}

func (m *Memory) GetOptimizerConfig(ctx context.Context, tenantID string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.optCfg[tenantID], nil
}

func (m *Memory) SaveOptimizerConfig(ctx context.Context, tenantID string, cfg map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.optCfg[tenantID] = cfg
	return nil
}

func cursorIndex(ids []string, cursor string) int {
	if cursor == "" {
		return 0
	}
	for i, id := range ids {
		if id == cursor {
			return i + 1
		}
	}
	return 0
}
