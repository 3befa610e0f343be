package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/H0M10/NovaGuardianBackend/internal/auth"
	"github.com/H0M10/NovaGuardianBackend/internal/config"
	"github.com/H0M10/NovaGuardianBackend/internal/database"
	httpapi "github.com/H0M10/NovaGuardianBackend/internal/http"
	"github.com/H0M10/NovaGuardianBackend/internal/logger"
	"github.com/H0M10/NovaGuardianBackend/internal/mqtt"
	"github.com/H0M10/NovaGuardianBackend/internal/repository"
	"github.com/H0M10/NovaGuardianBackend/internal/service"
	"github.com/H0M10/NovaGuardianBackend/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "novaguardian-backend")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	var kv store.KV
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unavailable, dashboard cache disabled", zap.Error(err))
	} else {
		kv = store.NewRedisKV(redisClient)
	}

	// Repositories
	usersRepo := repository.NewPostgresUsersRepo(db)
	devicesRepo := repository.NewPostgresDevicesRepo(db)
	eventsRepo := repository.NewPostgresEventsRepo(db)
	adminsRepo := repository.NewPostgresAdminsRepo(db)

	// Services
	tokens := auth.NewTokenService(cfg.JWT)
	var notifier service.Notifier
	if cfg.Notify.Enabled && cfg.Notify.WebhookURL != "" {
		notifier = service.NewWebhookNotifier(cfg.Notify, log)
	}
	authSvc := service.NewAuthService(adminsRepo, tokens, log)
	userSvc := service.NewUserService(usersRepo, log)
	deviceSvc := service.NewDeviceService(devicesRepo, log)
	eventSvc := service.NewEventService(eventsRepo, notifier, log)
	dashboardSvc := service.NewDashboardService(usersRepo, devicesRepo, eventsRepo, kv, log)
	exportSvc := service.NewExportService(eventsRepo, usersRepo, log)

	// HTTP
	router := httpapi.NewRouter(log)
	router.Register(&httpapi.Handlers{
		Auth:      httpapi.NewAuthHandler(authSvc),
		Users:     httpapi.NewUserHandler(userSvc),
		Devices:   httpapi.NewDeviceHandler(deviceSvc),
		Events:    httpapi.NewEventHandler(eventSvc),
		Dashboard: httpapi.NewDashboardHandler(dashboardSvc),
		Export:    httpapi.NewExportHandler(exportSvc),
	})

	gate := httpapi.NewAccessGate(tokens, log)
	handler := httpapi.RequestID(httpapi.CORS(cfg.CORS, gate.Wrap(router)))

	// Optional device telemetry ingestion
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.NewClient(cfg.MQTT)
		if err != nil {
			log.Warn("MQTT broker unreachable, telemetry ingestion disabled", zap.Error(err))
		} else {
			broker := mqtt.NewAlertBroker(eventSvc, deviceSvc, log)
			if err := mqttClient.Subscribe(cfg.MQTT.Topic, 1, broker.HandleMessage); err != nil {
				log.Warn("MQTT subscribe failed", zap.String("topic", cfg.MQTT.Topic), zap.Error(err))
			} else {
				log.Info("MQTT telemetry ingestion enabled", zap.String("topic", cfg.MQTT.Topic))
			}
		}
	}

	srv := service.NewServer(cfg.HTTP.Addr, handler, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		log.Error("HTTP server stopped", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
}
