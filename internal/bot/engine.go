package bot

import (
	"context"

	"eduappbot/internal/models"
	"eduappbot/internal/ui"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const commandStart = "/start"

// handleMessage обрабатывает одно входящее сообщение: ровно один переход
// и ровно одна отрисовка экрана в конце.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := msg.Text
	l := zerolog.Ctx(ctx)

	if text == commandStart {
		if err := b.sessions.ResetSession(ctx, chatID); err != nil {
			l.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to reset session")
		}
		b.enter(ctx, models.NewSession(chatID), StateGuest)
		return
	}

	session, err := b.sessions.GetSession(ctx, chatID)
	if err != nil {
		b.sendMessage(chatID, ui.MsgInternalError)
		return
	}

	state := StateID(session.State)
	if !knownState(state) {
		b.enter(ctx, session, StateGuest)
		return
	}

	event := l.Debug().Int64("chat_id", chatID).Str("state", string(state))
	if msg.From != nil {
		event = event.Str("username", msg.From.UserName)
	}
	if state != StateAuthPassword {
		event = event.Str("text", text)
	}
	event.Msg("Handling message")

	if action, ok := resolve(state, session.Buttons, text); ok {
		b.apply(ctx, session, msg, action)
		return
	}

	if isInputState(state) {
		b.handleInput(ctx, session, msg, state)
		return
	}

	l.Info().Int64("chat_id", chatID).Str("state", string(state)).Msg("Command not recognized")
	b.metrics.incUnrecognized()
	b.sendMessage(chatID, ui.MsgUnknownCommand)
	b.enter(ctx, session, state)
}

func (b *Bot) apply(ctx context.Context, session *models.Session, msg *tgbotapi.Message, action Action) {
	target := action.Enter
	if action.Handler != "" {
		target = b.runHandler(ctx, session, msg, action.Handler)
	}
	b.enter(ctx, session, target)
}

func (b *Bot) runHandler(ctx context.Context, session *models.Session, msg *tgbotapi.Message, handler HandlerID) StateID {
	switch handler {
	case handlerHelp:
		return b.handleHelp(session, msg)
	case handlerProfile:
		return b.handleProfile(ctx, session)
	case handlerCalendarMonth:
		return b.handleCalendarMonth(ctx, session, msg.Text)
	case handlerQuestionsPage:
		return b.handleQuestionsPage(session, msg.Text)
	case handlerOlderComments:
		return b.handleCommentsPage(session, 1)
	case handlerNewerComments:
		return b.handleCommentsPage(session, -1)
	case handlerAsk:
		return b.handleAsk(session)
	}
	zerolog.Ctx(ctx).Error().Str("handler", string(handler)).Msg("Unknown handler")
	return StateMain
}

func (b *Bot) handleInput(ctx context.Context, session *models.Session, msg *tgbotapi.Message, state StateID) {
	switch state {
	case StateAuthLogin:
		b.enter(ctx, session, b.handleLoginInput(session, msg))
	case StateAuthPassword:
		b.enter(ctx, session, b.handlePasswordInput(ctx, session, msg))
	case StateCalendarPeriod:
		b.handlePeriodInput(ctx, session, msg.Text)
	case StateQuestionNumber:
		b.handleQuestionNumberInput(ctx, session, msg.Text)
	}
}

// enter строит экран состояния и отрисовывает его. Экраны с данными EduApp
// при ошибке сами выбирают экран, куда вернуть пользователя.
func (b *Bot) enter(ctx context.Context, session *models.Session, state StateID) {
	var scr screen
	switch state {
	case StateQuestions:
		scr = b.buildQuestions(ctx, session)
	case StateQuestionChat:
		scr = b.buildQuestionChat(ctx, session)
	default:
		scr = staticScreen(state)
	}
	b.render(ctx, session, scr)
}

// render отправляет подсказку экрана с клавиатурой и запоминает экран в сессии.
// Если экран не доставлен, сессия остается на прежнем экране.
func (b *Bot) render(ctx context.Context, session *models.Session, scr screen) {
	if _, err := b.tgService.SendWithKeyboard(session.ChatID, scr.prompt, replyKeyboard(scr.buttons)); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", session.ChatID).Str("state", string(scr.state)).Msg("Failed to send screen")
		b.sendMessage(session.ChatID, ui.MsgInternalError)
		return
	}

	if scr.state != StateAuthPassword {
		session.PendingLogin = ""
	}
	session.State = string(scr.state)
	session.Buttons = scr.buttons
	b.metrics.incTransition(scr.state)

	// Ошибка уже залогирована сервисом, экран пользователю доставлен
	_ = b.sessions.SaveSession(ctx, session)
}

func replyKeyboard(labels []string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(label)))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}
