package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/moderation-service/internal/api/http"
	"github.com/spec-kit/moderation-service/internal/api/http/handlers"
	"github.com/spec-kit/moderation-service/internal/api/ws"
	"github.com/spec-kit/moderation-service/internal/auth"
	"github.com/spec-kit/moderation-service/internal/config"
	"github.com/spec-kit/moderation-service/internal/cooldown"
	"github.com/spec-kit/moderation-service/internal/events"
	"github.com/spec-kit/moderation-service/internal/gateway"
	"github.com/spec-kit/moderation-service/internal/logsink"
	"github.com/spec-kit/moderation-service/internal/observability"
	"github.com/spec-kit/moderation-service/internal/persistence"
	"github.com/spec-kit/moderation-service/internal/platform/discord"
	"github.com/spec-kit/moderation-service/internal/queue"
	"github.com/spec-kit/moderation-service/internal/repository"
	"github.com/spec-kit/moderation-service/internal/service"
	"github.com/spec-kit/moderation-service/internal/timer"
	"github.com/spec-kit/moderation-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	reportRepo := repository.NewReportRepository(pool)
	moderationRepo := repository.NewModerationRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	rolesRepo := repository.NewRolesRepository(pool)
	moderatorRepo := repository.NewModeratorRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	gw, err := discord.NewGateway(cfg.Platform.BotToken)
	if err != nil {
		logger.Fatal("failed to build gateway", zap.Error(err))
	}
	client := discord.NewClient(gw.Session())

	var cooldowns cooldown.Tracker
	if strings.EqualFold(cfg.Workflow.CooldownBackend, "redis") {
		cooldowns = cooldown.NewRedisTracker(redis.Client, cfg.Workflow.TicketCooldown())
	} else {
		cooldowns = cooldown.NewMemoryTracker(cfg.Workflow.TicketCooldown())
	}

	timers := timer.NewRegistry(cfg.Workflow.TicketInactivity(), logger)
	defer timers.Shutdown()

	sink := logsink.NewSink(client, settingsRepo, metrics, logger, cfg.Platform.TicketLogChannel)

	ticketService := service.NewTicketService(client, cooldowns, timers, sink, dispatcher, logger,
		cfg.Workflow.TicketCooldown(), cfg.Workflow.TicketInactivity())
	reportService := service.NewReportService(client, reportRepo, dispatcher, logger, cfg.Platform.AdminChannelName)
	reportExecutor := service.NewReportExecutor(client, reportRepo, moderationRepo, dispatcher, logger)
	moderationService := service.NewModerationService(client, moderationRepo, rolesRepo, dispatcher, logger)
	dashboardService := service.NewDashboardService(client, settingsRepo, activityRepo, logger)
	adminService := service.NewAdminService(client, logger, cfg.Platform.DashboardURL)
	notificationService := service.NewNotificationService(dispatcher, logger)

	var publisher *queue.Publisher
	if cfg.Broker.URL != "" {
		publisher, err = queue.Dial(cfg.Broker.URL, cfg.Broker.QueueName, logger)
		if err != nil {
			logger.Warn("broker unavailable, event bridge disabled", zap.Error(err))
		} else {
			defer publisher.Close()
		}
	}
	worker.StartNotificationWorker(notificationService, publisher, dispatcher)

	verifier := auth.NewVerifier(cfg.Auth.IdentityJWTSecret)
	chatIDResolver := auth.NewChatIDResolver(cfg.Auth.ChatProvider, moderatorRepo)
	contextResolver := auth.NewContextResolver(chatIDResolver, client)
	authMiddleware := auth.NewMiddleware(verifier)

	hub := ws.NewHub(logger)

	router := gateway.NewRouter(ticketService, reportService, reportExecutor, adminService, logger)
	consumer := gateway.NewConsumer(client, gw, router, ticketService, adminService, activityRepo, hub, gateway.ChannelNames{
		Support:   cfg.Platform.SupportChannelName,
		Admin:     cfg.Platform.AdminChannelName,
		TicketLog: cfg.Platform.TicketLogChannel,
	}, logger)

	if err := gw.Open(ctx); err != nil {
		logger.Fatal("failed to open gateway", zap.Error(err))
	}
	go consumer.Run(ctx)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.AllowedOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(contextResolver),
		Servers:        handlers.NewServersHandler(dashboardService, contextResolver),
		Settings:       handlers.NewSettingsHandler(dashboardService, contextResolver),
		Moderation:     handlers.NewModerationHandler(moderationService, contextResolver),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
		PresenceHub:    hub,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = gw.Close()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
