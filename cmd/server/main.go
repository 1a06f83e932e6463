package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	alerthandler "github.com/Loxfxgc/life-drop/internal/alert/handler"
	alertservice "github.com/Loxfxgc/life-drop/internal/alert/service"
	alertstore "github.com/Loxfxgc/life-drop/internal/alert/store"
	donorhandler "github.com/Loxfxgc/life-drop/internal/donor/handler"
	donorservice "github.com/Loxfxgc/life-drop/internal/donor/service"
	donorstore "github.com/Loxfxgc/life-drop/internal/donor/store"
	"github.com/Loxfxgc/life-drop/internal/effects"
	hospitalhandler "github.com/Loxfxgc/life-drop/internal/hospital/handler"
	hospitalservice "github.com/Loxfxgc/life-drop/internal/hospital/service"
	hospitalstore "github.com/Loxfxgc/life-drop/internal/hospital/store"
	httptransport "github.com/Loxfxgc/life-drop/internal/http"
	identityhandler "github.com/Loxfxgc/life-drop/internal/identity/handler"
	identityservice "github.com/Loxfxgc/life-drop/internal/identity/service"
	identitystore "github.com/Loxfxgc/life-drop/internal/identity/store"
	inventoryhandler "github.com/Loxfxgc/life-drop/internal/inventory/handler"
	inventoryservice "github.com/Loxfxgc/life-drop/internal/inventory/service"
	inventorystore "github.com/Loxfxgc/life-drop/internal/inventory/store"
	"github.com/Loxfxgc/life-drop/internal/jwttoken"
	"github.com/Loxfxgc/life-drop/internal/platform/config"
	"github.com/Loxfxgc/life-drop/internal/platform/httpserver"
	"github.com/Loxfxgc/life-drop/internal/platform/logger"
	"github.com/Loxfxgc/life-drop/internal/platform/metrics"
	"github.com/Loxfxgc/life-drop/internal/platform/middleware"
	"github.com/Loxfxgc/life-drop/internal/platform/redis"
	requesthandler "github.com/Loxfxgc/life-drop/internal/request/handler"
	requestservice "github.com/Loxfxgc/life-drop/internal/request/service"
	requeststore "github.com/Loxfxgc/life-drop/internal/request/store"
	userhandler "github.com/Loxfxgc/life-drop/internal/user/handler"
	userservice "github.com/Loxfxgc/life-drop/internal/user/service"
	userstore "github.com/Loxfxgc/life-drop/internal/user/store"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit/publisher"
	auditkafka "github.com/Loxfxgc/life-drop/pkg/platform/audit/store/kafka"
	auditmemory "github.com/Loxfxgc/life-drop/pkg/platform/audit/store/memory"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx := context.Background()

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Error("database open failed", "error", err)
			os.Exit(1)
		}
		if err := db.PingContext(ctx); err != nil {
			log.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	var (
		identityStore  identityservice.Store
		userStore      userservice.Store
		donorStore     donorservice.Store
		hospitalStore  hospitalservice.Store
		inventoryStore inventoryservice.Store
		requestStore   requestservice.Store
		alertStore     alertservice.Store
	)
	if db != nil {
		identityStore = identitystore.NewPostgres(db)
		userStore = userstore.NewPostgres(db)
		donorStore = donorstore.NewPostgres(db)
		hospitalStore = hospitalstore.NewPostgres(db)
		inventoryStore = inventorystore.NewPostgres(db)
		requestStore = requeststore.NewPostgres(db)
		alertStore = alertstore.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		identityStore = identitystore.NewInMemory()
		userStore = userstore.NewInMemory()
		donorStore = donorstore.NewInMemory()
		hospitalStore = hospitalstore.NewInMemory()
		inventoryStore = inventorystore.NewInMemory()
		requestStore = requeststore.NewInMemory()
		alertStore = alertstore.NewInMemory()
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	var revoker interface {
		Revoke(ctx context.Context, jti string, expiresAt time.Time) error
		IsRevoked(ctx context.Context, jti string) (bool, error)
	}
	if redisClient != nil {
		defer redisClient.Close()
		revoker = identitystore.NewRevocationRedis(redisClient)
	} else {
		revoker = identitystore.NewRevocationMemory()
	}

	var auditSink audit.Store
	if len(cfg.KafkaBrokers) > 0 {
		kafkaStore, err := auditkafka.New(ctx, cfg.KafkaBrokers)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditSink = kafkaStore
	} else {
		auditSink = auditmemory.NewInMemoryStore()
	}
	auditPub := publisher.NewPublisher(auditSink,
		publisher.WithAsyncBuffer(256), publisher.WithLogger(log))
	defer auditPub.Close()

	tokens := jwttoken.NewService(cfg.JWTSigningKey)
	runner := effects.NewRunner()

	identitySvc := identityservice.NewService(identityStore, tokens, revoker, cfg.TokenTTL, auditPub, log)
	userSvc := userservice.NewService(userStore, log)
	donorSvc := donorservice.NewService(donorStore, runner, auditPub, log)
	hospitalSvc := hospitalservice.NewService(hospitalStore, alertStore, donorStore, requestStore, runner, auditPub, log)
	inventorySvc := inventoryservice.NewService(inventoryStore, donorStore, requestStore, log)
	requestSvc := requestservice.NewService(requestStore, auditPub, log)
	alertSvc := alertservice.NewService(alertStore, log)

	router := httptransport.NewRouter(httptransport.Handlers{
		Identity:  identityhandler.NewHandler(identitySvc, log),
		User:      userhandler.NewHandler(userSvc, log),
		Donor:     donorhandler.NewHandler(donorSvc, log),
		Hospital:  hospitalhandler.NewHandler(hospitalSvc, log),
		Inventory: inventoryhandler.NewHandler(inventorySvc, log),
		Request:   requesthandler.NewHandler(requestSvc, log),
		Alert:     alerthandler.NewHandler(alertSvc, log),
	}, tokens, middleware.RevocationChecker(revoker), m, log)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting life-drop", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
