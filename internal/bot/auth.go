package bot

import (
	"context"
	"fmt"
	"strings"

	"eduappbot/internal/eduapp"
	"eduappbot/internal/models"
	"eduappbot/internal/ui"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// handleLoginInput запоминает логин. Пустой ввод (стикер, фото, пробелы)
// оставляет пользователя на вводе логина.
func (b *Bot) handleLoginInput(session *models.Session, msg *tgbotapi.Message) StateID {
	if strings.TrimSpace(msg.Text) == "" {
		return StateAuthLogin
	}

	session.PendingLogin = msg.Text
	if _, err := b.tgService.Reply(session.ChatID, msg.MessageID, fmt.Sprintf(ui.MsgLoginEcho, msg.Text)); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", session.ChatID).Msg("Failed to echo login")
	}
	return StateAuthPassword
}

// handlePasswordInput входит в EduApp. Сообщение с паролем удаляется из чата
// и нигде не повторяется.
func (b *Bot) handlePasswordInput(ctx context.Context, session *models.Session, msg *tgbotapi.Message) StateID {
	l := zerolog.Ctx(ctx)
	if err := b.tgService.DeleteMessage(session.ChatID, msg.MessageID); err != nil {
		l.Debug().Err(err).Int64("chat_id", session.ChatID).Msg("Failed to delete password message")
	}

	username := session.PendingLogin
	if username == "" {
		return StateAuthLogin
	}
	if strings.TrimSpace(msg.Text) == "" {
		return StateAuthPassword
	}
	session.PendingLogin = ""

	creds, err := b.auth.Login(ctx, session.ChatID, username, msg.Text)
	if err != nil {
		l.Info().Err(err).Int64("chat_id", session.ChatID).Msg("Login failed")
		b.sendMessage(session.ChatID, ui.LoginFailure(eduapp.UserMessage(err)))
		return StateMain
	}

	b.sendMessage(session.ChatID, ui.MsgAuthSucceeded)
	name := creds.FullName
	if name == "" {
		name = creds.Username
	}
	b.sendMessage(session.ChatID, ui.LoginSuccess(name))
	return StateMain
}
