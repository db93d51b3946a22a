package bot

import (
	"context"
	"time"

	"eduappbot/internal/ui"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) withRecovery(handler func()) {
	defer func() {
		if r := recover(); r != nil {
			if b.metrics != nil {
				b.metrics.ErrorsTotal.Inc()
			}
			b.logger.Error().Interface("panic", r).Msg("Recovered from panic in update handler")
		}
	}()
	handler()
}

// allow проверяет черный список и ограничение частоты сообщений чата.
func (b *Bot) allow(ctx context.Context, msg *tgbotapi.Message) bool {
	if msg.From != nil && b.access != nil && b.access.IsBlacklisted(msg.From.ID) {
		return false
	}

	limit := b.config.Bot.RateLimitMessages
	window := time.Duration(b.config.Bot.RateLimitWindow) * time.Second
	if limit <= 0 || window <= 0 {
		return true
	}

	allowed, err := b.sessions.CheckRateLimit(ctx, msg.Chat.ID, limit, window)
	if err != nil {
		// Хранилище недоступно: лучше ответить, чем молчать
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("Rate limit check failed")
		return true
	}
	if !allowed {
		zerolog.Ctx(ctx).Warn().Int64("chat_id", msg.Chat.ID).Msg("Rate limit exceeded")
		b.sendMessage(msg.Chat.ID, ui.MsgRateLimited)
		return false
	}
	return true
}
