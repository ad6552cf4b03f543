package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/claireundgeorge/accessible-site/internal/data/db"
	httpserver "github.com/claireundgeorge/accessible-site/internal/http"
	"github.com/claireundgeorge/accessible-site/internal/observability"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
	"github.com/claireundgeorge/accessible-site/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *db.Service
	Clients  Clients
	Repos    Repos
	Services Services
	Realtime Realtime
	Server   *httpserver.Server

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	database, err := openDatabase(log, cfg)
	if err != nil {
		closeClients(clients)
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}

	storage, err := wireStorage(log, cfg, clients, database)
	if err != nil {
		closeAll(clients, database)
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(database, log)

	rt, err := wireRealtime(log, cfg, clients)
	if err != nil {
		closeAll(clients, database)
		log.Sync()
		return nil, err
	}

	serviceset, err := wireServices(log, cfg, storage, clients, reposet, rt)
	if err != nil {
		closeAll(clients, database)
		log.Sync()
		return nil, err
	}

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           database,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Realtime:     rt,
		Server:       wireServer(log, cfg, serviceset, rt),
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background workers: the idle-store janitor and, with
// a redis bus, the forwarder feeding the local hub.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.Services.Personas.StartJanitor(ctx, a.Cfg.JanitorEvery, a.Cfg.IdleTTL)

	if a.Realtime.Bus != nil {
		hub := a.Realtime.Hub
		if err := a.Realtime.Bus.StartForwarder(ctx, func(m realtime.SSEMessage) {
			hub.Broadcast(m)
		}); err != nil {
			return fmt.Errorf("start SSE forwarder: %w", err)
		}
	}
	return nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("HTTP server listening", "addr", addr, "persona_storage", string(a.Cfg.Storage))
	return a.Server.Run(addr)
}

// Shutdown drains HTTP requests, then stops workers and releases clients.
func (a *App) Shutdown(ctx context.Context) {
	if a == nil {
		return
	}
	if a.Realtime.Hub != nil {
		a.Realtime.Hub.CloseAll()
	}
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			a.Log.Warn("HTTP shutdown incomplete", "error", err)
		}
	}
	a.Close()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Realtime.Bus != nil {
		_ = a.Realtime.Bus.Close()
	}
	closeAll(a.Clients, a.DB)
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

func closeClients(c Clients) {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

func closeAll(c Clients, database *db.Service) {
	closeClients(c)
	if database != nil {
		_ = database.Close()
	}
}
