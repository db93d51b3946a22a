package bot

import (
	"context"
	"errors"
	"os"
	"time"

	"eduappbot/internal/config"
	"eduappbot/internal/domain"
	"eduappbot/internal/models"
	"eduappbot/internal/ui"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Bot struct {
	tgService domain.TelegramService
	config    *config.Config
	sessions  domain.SessionManager
	auth      domain.AuthService
	lms       domain.LMSClient
	access    domain.AccessChecker
	renderer  *ui.Renderer
	metrics   *Metrics
	logger    *zerolog.Logger
	now       func() time.Time
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	sessions domain.SessionManager,
	auth domain.AuthService,
	lms domain.LMSClient,
	access domain.AccessChecker,
	renderer *ui.Renderer,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if tgService == nil || config == nil || sessions == nil || auth == nil || lms == nil {
		return nil, errors.New("bot: telegram, config, sessions, auth and lms are required")
	}

	if renderer == nil {
		r, err := ui.New()
		if err != nil {
			return nil, err
		}
		renderer = r
	}

	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tgService: tgService,
		config:    config,
		sessions:  sessions,
		auth:      auth,
		lms:       lms,
		access:    access,
		renderer:  renderer,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

// Stop stops receiving Telegram updates (best-effort).
func (b *Bot) Stop() {
	if b == nil || b.tgService == nil {
		return
	}
	b.tgService.StopReceivingUpdates()
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	// Создаем контекст для обработки каждого обновления
	timeout := time.Duration(b.config.Bot.UpdateTimeout) * time.Second
	if timeout <= 0 {
		timeout = time.Duration(models.DefaultUpdateTimeout) * time.Second
	}
	updateCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		msg := update.Message
		if msg == nil || msg.Chat == nil {
			return
		}
		if !b.allow(updateCtx, msg) {
			return
		}
		b.metrics.incMessages()
		b.handleMessage(updateCtx, msg)
	})
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) sendHTML(chatID int64, text string) {
	if _, err := b.tgService.SendHTML(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}
