package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	redisclient "github.com/shikhonhub/shikhon-backend/internal/clients/redis"
	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/data/db"
	"github.com/shikhonhub/shikhon-backend/internal/observability"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/realtime"
)

// watchedTables are the collections whose changes fan out to SSE clients.
var watchedTables = []string{
	"topics",
	"videos",
	"quizzes",
	"user_progress",
	"user_profiles",
	"categories",
	"posts",
	"events",
	"challenges",
	"challenge_submissions",
	"challenge_payments",
}

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Hub      *realtime.Hub

	bus          binding.ChangeBus
	redisBus     *redisclient.ChangeBus
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	store, err := db.New(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := store.DB()

	a := &App{Log: log, DB: theDB, Cfg: cfg}

	// Redis fans changes out across instances; a single instance runs fine
	// on the in-process bus.
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		redisBus, err := redisclient.NewChangeBus(log)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init redis change bus: %w", err)
		}
		a.redisBus = redisBus
		a.bus = redisBus
	} else {
		a.bus = binding.NewLocalBus()
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, a.bus)
	if err != nil {
		log.Sync()
		return nil, err
	}

	hub := realtime.NewHub(log)
	if err := hub.Attach(a.bus, watchedTables...); err != nil {
		log.Sync()
		return nil, fmt.Errorf("attach realtime hub: %w", err)
	}

	handlerset := wireHandlers(log, serviceset, hub)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, handlerset, middleware)

	a.Router = router
	a.Repos = reposet
	a.Services = serviceset
	a.Hub = hub
	return a, nil
}

func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.otelShutdown = observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		ServiceName: "shikhon-backend",
		Environment: a.Cfg.Environment,
	})

	if a.redisBus != nil {
		if err := a.redisBus.Start(ctx); err != nil {
			return fmt.Errorf("start redis change bus: %w", err)
		}
	}
	return nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.redisBus != nil {
		if err := a.redisBus.Close(); err != nil {
			a.Log.Warn("redis close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
