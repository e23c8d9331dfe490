package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"hubnet/internal/cost"
	"hubnet/internal/model"
	"hubnet/internal/opt"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// MigrateDir applies every .sql file in dir in lexical order. Dev helper;
// production schemas are managed externally.
func (p *Postgres) MigrateDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		sqlBytes, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if _, err := p.db.Exec(string(sqlBytes)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) CreateNetwork(ctx context.Context, tenantID string, in model.NetworkIn, elements []model.ElementOut) (model.NetworkOut, error) {
	id := uuid.New().String()
	elems, err := json.Marshal(elements)
	if err != nil {
		return model.NetworkOut{}, err
	}
	createdAt := time.Now().UTC()
	_, err = p.db.ExecContext(ctx, `INSERT INTO networks (id, tenant_id, name, transport_rate, elements, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`, id, tenantID, nullIfEmpty(in.Name), in.TransportRate, elems, createdAt)
	if err != nil {
		return model.NetworkOut{}, err
	}
	return model.NetworkOut{
		ID: id, TenantID: tenantID, Name: in.Name,
		TransportRate: in.TransportRate, Elements: elements,
		CreatedAt: createdAt.Format(time.RFC3339),
	}, nil
}

func (p *Postgres) GetNetwork(ctx context.Context, tenantID, id string) (model.NetworkOut, error) {
	var nw model.NetworkOut
	var name sql.NullString
	var elems []byte
	var createdAt time.Time
	err := p.db.QueryRowContext(ctx, `SELECT id::text, name, transport_rate, elements, created_at
		FROM networks WHERE tenant_id=$1 AND id=$2`, tenantID, id).
		Scan(&nw.ID, &name, &nw.TransportRate, &elems, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NetworkOut{}, ErrNotFound
	}
	if err != nil {
		return model.NetworkOut{}, err
	}
	nw.TenantID = tenantID
	nw.Name = name.String
	nw.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	_ = json.Unmarshal(elems, &nw.Elements)
	return nw, nil
}

func (p *Postgres) ListNetworks(ctx context.Context, tenantID, cursor string, limit int) ([]model.NetworkOut, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows *sql.Rows
	var err error
	if cursor != "" {
		rows, err = p.db.QueryContext(ctx, `SELECT id::text, name, transport_rate, elements, created_at
			FROM networks WHERE tenant_id=$1 AND id::text > $2 ORDER BY id LIMIT $3`, tenantID, cursor, limit)
	} else {
		rows, err = p.db.QueryContext(ctx, `SELECT id::text, name, transport_rate, elements, created_at
			FROM networks WHERE tenant_id=$1 ORDER BY id LIMIT $2`, tenantID, limit)
	}
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()
	var out []model.NetworkOut
	var last string
	for rows.Next() {
		var nw model.NetworkOut
		var name sql.NullString
		var elems []byte
		var createdAt time.Time
		if err := rows.Scan(&nw.ID, &name, &nw.TransportRate, &elems, &createdAt); err != nil {
			return nil, "", err
		}
		nw.TenantID = tenantID
		nw.Name = name.String
		nw.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		_ = json.Unmarshal(elems, &nw.Elements)
		out = append(out, nw)
		last = nw.ID
	}
	next := ""
	if len(out) == limit {
		next = last
	}
	return out, next, nil
}

func (p *Postgres) SaveRun(ctx context.Context, run model.RunOut) (model.RunOut, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	createdAt := time.Now().UTC()
	run.CreatedAt = createdAt.Format(time.RFC3339)
	passLog, _ := json.Marshal(run.Result.PassLog)
	before, _ := json.Marshal(run.Before)
	after, _ := json.Marshal(run.After)
	elems, _ := json.Marshal(run.Elements)
	_, err := p.db.ExecContext(ctx, `INSERT INTO runs
		(id, tenant_id, network_id, algorithm, initial_cost, final_cost, passes, pass_log, cost_before, cost_after, elements, export_path, elapsed_ms, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		run.ID, run.TenantID, run.NetworkID, run.Algorithm,
		run.Result.InitialCost, run.Result.FinalCost, run.Result.Passes,
		passLog, before, after, elems, nullIfEmpty(run.ExportPath), run.ElapsedMs, createdAt)
	if err != nil {
		return model.RunOut{}, err
	}
	return run, nil
}

func (p *Postgres) GetRun(ctx context.Context, tenantID, id string) (model.RunOut, error) {
	row := p.db.QueryRowContext(ctx, `SELECT id::text, network_id::text, algorithm, initial_cost, final_cost, passes, pass_log, cost_before, cost_after, elements, COALESCE(export_path,''), elapsed_ms, created_at
		FROM runs WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RunOut{}, ErrNotFound
	}
	if err != nil {
		return model.RunOut{}, err
	}
	run.TenantID = tenantID
	return run, nil
}

func (p *Postgres) ListRuns(ctx context.Context, tenantID, networkID, cursor string, limit int) ([]model.RunOut, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT id::text, network_id::text, algorithm, initial_cost, final_cost, passes, pass_log, cost_before, cost_after, elements, COALESCE(export_path,''), elapsed_ms, created_at
		FROM runs WHERE tenant_id=$1`
	args := []any{tenantID}
	if networkID != "" {
		args = append(args, networkID)
		q += ` AND network_id=$2`
	}
	if cursor != "" {
		args = append(args, cursor)
		q += ` AND id::text > $` + itoa(len(args))
	}
	args = append(args, limit)
	q += ` ORDER BY id LIMIT $` + itoa(len(args))
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()
	var out []model.RunOut
	var last string
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, "", err
		}
		run.TenantID = tenantID
		out = append(out, run)
		last = run.ID
	}
	next := ""
	if len(out) == limit {
		next = last
	}
	return out, next, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (model.RunOut, error) {
	var run model.RunOut
	var passLog, before, after, elems []byte
	var createdAt time.Time
	err := row.Scan(&run.ID, &run.NetworkID, &run.Algorithm,
		&run.Result.InitialCost, &run.Result.FinalCost, &run.Result.Passes,
		&passLog, &before, &after, &elems, &run.ExportPath, &run.ElapsedMs, &createdAt)
	if err != nil {
		return model.RunOut{}, err
	}
	run.Result.Algorithm = run.Algorithm
	run.Result.Improvement = run.Result.InitialCost - run.Result.FinalCost
	if run.Result.InitialCost > 0 {
		run.Result.ImprovementPct = run.Result.Improvement / run.Result.InitialCost * 100
	}
	var log []opt.PassCost
	_ = json.Unmarshal(passLog, &log)
	run.Result.PassLog = log
	var b, a cost.Breakdown
	_ = json.Unmarshal(before, &b)
	_ = json.Unmarshal(after, &a)
	run.Before, run.After = b, a
	_ = json.Unmarshal(elems, &run.Elements)
	run.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return run, nil
}

func (p *Postgres) CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error) {
	id := uuid.New().String()
	events, _ := json.Marshal(req.Events)
	_, err := p.db.ExecContext(ctx, `INSERT INTO subscriptions (id, tenant_id, url, secret, events)
		VALUES ($1,$2,$3,$4,$5)`, id, req.TenantID, req.URL, nullIfEmpty(req.Secret), events)
	if err != nil {
		return model.Subscription{}, err
	}
	return model.Subscription{ID: id, TenantID: req.TenantID, URL: req.URL, Events: req.Events, Secret: req.Secret}, nil
}

func (p *Postgres) GetSubscriptionsForEvent(ctx context.Context, tenantID, eventType string) ([]model.Subscription, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id::text, url, COALESCE(secret,''), events
		FROM subscriptions WHERE tenant_id=$1 AND (events ? $2 OR events ? '*')`, tenantID, eventType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Subscription
	for rows.Next() {
		var s model.Subscription
		var ev []byte
		if err := rows.Scan(&s.ID, &s.URL, &s.Secret, &ev); err != nil {
			return nil, err
		}
		s.TenantID = tenantID
		_ = json.Unmarshal(ev, &s.Events)
		out = append(out, s)
	}
	return out, nil
}

func (p *Postgres) ListSubscriptions(ctx context.Context, tenantID, cursor string, limit int) ([]model.Subscription, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows *sql.Rows
	var err error
	if cursor != "" {
		rows, err = p.db.QueryContext(ctx, `SELECT id::text, url, COALESCE(secret,''), events FROM subscriptions WHERE tenant_id=$1 AND id::text > $2 ORDER BY id LIMIT $3`, tenantID, cursor, limit)
	} else {
		rows, err = p.db.QueryContext(ctx, `SELECT id::text, url, COALESCE(secret,''), events FROM subscriptions WHERE tenant_id=$1 ORDER BY id LIMIT $2`, tenantID, limit)
	}
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()
	var out []model.Subscription
	var last string
	for rows.Next() {
		var s model.Subscription
		var ev []byte
		if err := rows.Scan(&s.ID, &s.URL, &s.Secret, &ev); err != nil {
			return nil, "", err
		}
		s.TenantID = tenantID
		_ = json.Unmarshal(ev, &s.Events)
		out = append(out, s)
		last = s.ID
	}
	next := ""
	if len(out) == limit {
		next = last
	}
	return out, next, nil
}

func (p *Postgres) DeleteSubscription(ctx context.Context, tenantID, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	return err
}

func (p *Postgres) EnqueueWebhook(ctx context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
	id := uuid.New().String()
	_, err := p.db.ExecContext(ctx, `INSERT INTO webhook_deliveries (id, tenant_id, subscription_id, event_type, url, secret, payload, status, attempts, next_attempt_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,'pending',0,now())`, id, tenantID, nullIfEmpty(subscriptionID), eventType, url, nullIfEmpty(secret), payload)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (p *Postgres) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id::text, tenant_id::text, COALESCE(subscription_id::text,''), event_type, url, COALESCE(secret,''), payload, status, attempts
		FROM webhook_deliveries WHERE status IN ('pending','retry') AND next_attempt_at <= now() ORDER BY next_attempt_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []WebhookDelivery{}
	for rows.Next() {
		var d WebhookDelivery
		if err := rows.Scan(&d.ID, &d.TenantID, &d.SubscriptionID, &d.EventType, &d.URL, &d.Secret, &d.Payload, &d.Status, &d.Attempts); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (p *Postgres) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	if success {
		_, err := p.db.ExecContext(ctx, `UPDATE webhook_deliveries SET status='delivered', attempts=attempts+1, last_error=NULL, response_code=$2, latency_ms=$3, delivered_at=now() WHERE id=$1`,
			id, responseCode, latencyMs)
		return err
	}
	_, err := p.db.ExecContext(ctx, `UPDATE webhook_deliveries SET status='retry', attempts=attempts+1, next_attempt_at=$2, last_error=$3, response_code=$4, latency_ms=$5 WHERE id=$1`,
		id, nextAttemptAt, nullIfEmpty(lastError), responseCode, latencyMs)
	return err
}

func (p *Postgres) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	_, err := p.db.ExecContext(ctx, `UPDATE webhook_deliveries SET status='failed', attempts=attempts+1, last_error=$2, response_code=$3, latency_ms=$4 WHERE id=$1`,
		id, nullIfEmpty(lastError), responseCode, latencyMs)
	return err
}

func (p *Postgres) GetOptimizerConfig(ctx context.Context, tenantID string) (map[string]any, error) {
	var raw []byte
	err := p.db.QueryRowContext(ctx, `SELECT cfg FROM optimizer_config WHERE tenant_id=$1`, tenantID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg map[string]any
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (p *Postgres) SaveOptimizerConfig(ctx context.Context, tenantID string, cfg map[string]any) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `INSERT INTO optimizer_config (tenant_id, cfg) VALUES ($1,$2)
		ON CONFLICT (tenant_id) DO UPDATE SET cfg=EXCLUDED.cfg`, tenantID, raw)
	return err
}

// Helpers
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
