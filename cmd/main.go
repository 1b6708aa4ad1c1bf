package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shubham-rawat0/chatApp/internal/app/registry"
	"github.com/Shubham-rawat0/chatApp/internal/app/server"
	"github.com/Shubham-rawat0/chatApp/internal/app/server/handlers"
	"github.com/Shubham-rawat0/chatApp/internal/app/worker"
	"github.com/Shubham-rawat0/chatApp/internal/config"
	"github.com/Shubham-rawat0/chatApp/internal/core/services"
	"github.com/Shubham-rawat0/chatApp/internal/platform/logger"
	"github.com/Shubham-rawat0/chatApp/internal/platform/telemetry"
	"github.com/Shubham-rawat0/chatApp/internal/plugins/postgres"
	redisPlugin "github.com/Shubham-rawat0/chatApp/internal/plugins/redis"
	"github.com/Shubham-rawat0/chatApp/internal/plugins/sendgrid"

	"github.com/redis/go-redis/v9"
)

func main() {
	// Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config
	cfg := config.Load()

	// Logger
	log := logger.NewLogger(*cfg)
	log.Info("starting application")

	otelShutdown, err := telemetry.InitTelemetry(ctx, *cfg)
	if err != nil {
		log.Error("failed to initialize telemetry", "err", err)
	}
	defer func() {
		log.Info("flushing telemetry...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "err", err)
		}
	}()

	// Infra
	var pdb *sql.DB
	if pdb, err = postgres.New(ctx, *cfg.Postgres); err != nil {
		log.Error("postgres connection failed", "DSN", cfg.Postgres.DSN)
		return
	}
	log.Info("postgres connected")
	var rdb *redis.Client
	if rdb, err = redisPlugin.NewRedisClient(ctx, *cfg.Redis); err != nil {
		log.Error("redis connection failed", "url", cfg.Redis.URL)
		return
	}
	log.Info("redis connected")

	// Adapters
	userRepo := postgres.NewUserRepository(pdb)
	friendsRepo := postgres.NewFriendsRepo(pdb)
	roomRepo := postgres.NewRoomRepo(pdb)
	memberRepo := postgres.NewRoomMemberRepo(pdb)
	msgRepo := postgres.NewMessageRepo(pdb)
	rosterRepo := postgres.NewRosterRepo(pdb, roomRepo, memberRepo, msgRepo)
	txManager := postgres.NewTxManager(pdb)

	cache := redisPlugin.NewRedisCache(rdb)
	queue := redisPlugin.NewRedisNotificationQueue(log, rdb)
	mailer := sendgrid.NewClient(*cfg.SendGrid)

	// In-process routing indexes
	presence := registry.NewPresence()
	rooms := registry.NewRooms()

	// Core Services
	tokenSvc := services.NewTokenService(cfg.SecretToken)
	rosterSvc := services.NewRosterService(log, cache, userRepo, friendsRepo, msgRepo, rosterRepo, cfg.Cache.ProfileTTL, cfg.Cache.GroupTTL)
	routerSvc := services.NewMessageRouter(log, msgRepo, memberRepo, presence, rooms, rosterSvc)
	gateway := services.NewGateway(log, presence, rooms, routerSvc, userRepo, cache)
	userSvc := services.NewUserService(log, userRepo, rosterSvc, queue, cfg.Worker.WelcomeTopic)
	friendSvc := services.NewFriendService(log, friendsRepo, userRepo, rosterSvc)
	groupSvc := services.NewGroupService(log, roomRepo, memberRepo, rosterSvc, txManager)

	// Worker
	wrkr := worker.NewWelcomeWorker(log, queue, mailer, cfg.Worker.WelcomeTopic, cfg.Worker.WelcomeGroup)
	if err := wrkr.Run(ctx); err != nil {
		log.Error("welcome worker start failed", "err", err)
		return
	}

	// Server
	userHandler := handlers.NewUserHandler(log, userSvc, friendSvc, groupSvc)
	wsHandler := handlers.NewWSHandler(log, gateway)
	srv := server.NewServer(log, cfg.Service.Name, cfg.Service.Addr, userHandler, wsHandler, tokenSvc)
	if err := srv.Start(); err != nil {
		log.Error("server stopped", "err", err)
	}
}
