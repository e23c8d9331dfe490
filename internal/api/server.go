package api

import (
	"context"
	"net/http"
	"os"
	"strings"

	"hubnet/internal/auth"
	"hubnet/internal/config"
	"hubnet/internal/export"
	"hubnet/internal/store"
	"hubnet/internal/webhooks"
)

type Server struct {
	Store  store.Store
	Pub    *webhooks.Publisher
	Auth   *auth.Verifier
	Broker EventBroker
	Export *export.Exporter
	Cfg    config.Config
}

// NewServer creates a Server. If DATABASE_URL is unset, uses in-memory store.
func NewServer(cfg config.Config) (*Server, error) {
	dsn := cfg.DatabaseURL
	var s store.Store
	if strings.TrimSpace(dsn) == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(dsn)
		if err != nil {
			return nil, err
		}
		// Run migrations (dev helper)
		if os.Getenv("DB_MIGRATE") != "false" {
			_ = sp.MigrateDir("db/migrations")
		}
		s = sp
	}
	var broker EventBroker
	if cfg.RedisURL != "" {
		if rb, err := NewRedisBroker(cfg.RedisURL); err == nil {
			broker = rb
		} else {
			broker = NewBroker()
		}
	} else {
		broker = NewBroker()
	}
	exp, err := export.NewExporter(cfg.ExportDir)
	if err != nil {
		return nil, err
	}
	return &Server{
		Store:  s,
		Pub:    webhooks.NewPublisher(s),
		Auth:   auth.NewVerifierFromEnv(),
		Broker: broker,
		Export: exp,
		Cfg:    cfg,
	}, nil
}

func (s *Server) withTenant(r *http.Request) (context.Context, string) {
	tenant := r.Header.Get("X-Tenant-Id")
	if tenant == "" {
		tenant = "t_demo"
	}
	ctx := context.WithValue(r.Context(), ctxKeyTenant{}, tenant)
	return ctx, tenant
}

type ctxKeyTenant struct{}

// NewWebhookWorker creates a background worker for webhook deliveries.
func (s *Server) NewWebhookWorker() *webhooks.Worker {
	return webhooks.NewWorker(s.Store)
}
