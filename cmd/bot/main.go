package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eduappbot/internal/bot"
	"eduappbot/internal/config"
	"eduappbot/internal/eduapp"
	"eduappbot/internal/events"
	"eduappbot/internal/logging"
	"eduappbot/internal/metrics"
	"eduappbot/internal/monitoring"
	"eduappbot/internal/repository"
	"eduappbot/internal/service"
	"eduappbot/internal/ui"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, baseLogger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := logging.Component(baseLogger, "bot-main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()
	botMetrics := bot.NewMetrics()

	redisClient, sessionService := initSessionService(ctx, cfg, &logger)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	client := eduapp.NewClient(cfg.EduApp, *baseLogger)
	if redisClient != nil && cfg.EduApp.CacheTTL > 0 {
		client.UseRedisCache(redisClient, time.Duration(cfg.EduApp.CacheTTL)*time.Second)
	}

	eventBus := events.NewEventBus()
	subscribeAuthEvents(eventBus, &logger)

	authService := service.NewAuthService(client, repository.NewMemoryCredentialStore(), eventBus, &logger)
	accessService := service.NewAccessService(cfg.Blacklist)

	if cfg.Monitoring.Enabled {
		monitoringServer := monitoring.NewServer(cfg.Monitoring, redisClient, logging.Component(baseLogger, "monitoring"))
		go func() {
			if err := monitoringServer.Start(); err != nil {
				logger.Error().Err(err).Msg("Monitoring server error")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = monitoringServer.Shutdown(shutdownCtx)
		}()
	}

	return startBot(ctx, cfg, sessionService, authService, client, accessService, botMetrics, &logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closer, nil
}

// initSessionService выбирает хранилище сессий: Redis с запасным хранилищем
// в памяти, либо только память, если Redis не настроен.
func initSessionService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.SessionService) {
	ttl := time.Duration(cfg.Bot.SessionTTL) * time.Second
	memoryRepo := repository.NewMemorySessionRepository(ttl)

	if cfg.Redis.Address == "" {
		logger.Info().Msg("Redis не настроен, сессии хранятся в памяти")
		return nil, service.NewSessionService(memoryRepo, logger)
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable")
	}

	primaryRepo := repository.NewRedisSessionRepository(redisClient, ttl)
	sessionRepo := repository.NewFailoverSessionRepository(primaryRepo, memoryRepo, logger)
	return redisClient, service.NewSessionService(sessionRepo, logger)
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	sessionService *service.SessionService,
	authService *service.AuthService,
	client *eduapp.Client,
	accessService *service.AccessService,
	botMetrics *bot.Metrics,
	logger *zerolog.Logger,
) error {
	botWrapper, err := bot.NewBotWrapper(cfg.Telegram)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}
	tgService := service.NewTelegramService(botWrapper)

	renderer, err := ui.New()
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка загрузки шаблонов")
		return err
	}

	telegramBot, err := bot.NewBot(
		tgService, cfg, sessionService, authService,
		client, accessService, renderer, botMetrics, logger,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания бота")
		return err
	}

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)
	telegramBot.Stop()

	logger.Info().Msg("Shutdown complete.")
	return nil
}

// subscribeAuthEvents пишет попытки входа в лог и метрики.
func subscribeAuthEvents(bus *events.EventBus, logger *zerolog.Logger) {
	handler := func(outcome string) events.EventHandler {
		return func(ev *events.Event) error {
			var payload events.AuthEventPayload
			if err := ev.Decode(&payload); err != nil {
				logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
				return nil
			}
			metrics.IncAuth(outcome)
			logger.Info().
				Str("event", ev.Type).
				Int64("chat_id", payload.ChatID).
				Str("username", payload.Username).
				Str("reason", payload.Reason).
				Msg("auth event")
			return nil
		}
	}

	bus.Subscribe(events.EventAuthSucceeded, handler("succeeded"))
	bus.Subscribe(events.EventAuthFailed, handler("failed"))
	bus.Subscribe(events.EventAuthRelogin, handler("relogin"))
}
