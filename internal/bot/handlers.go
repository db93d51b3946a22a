package bot

import (
	"context"
	"fmt"

	"eduappbot/internal/eduapp"
	"eduappbot/internal/models"
	"eduappbot/internal/ui"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleHelp(session *models.Session, msg *tgbotapi.Message) StateID {
	if _, err := b.tgService.Reply(session.ChatID, msg.MessageID, ui.HelpText); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", session.ChatID).Msg("Failed to send help")
	}
	return StateMain
}

func (b *Bot) handleProfile(ctx context.Context, session *models.Session) StateID {
	creds, ok := b.auth.Credentials(session.ChatID)
	if !ok {
		b.sendMessage(session.ChatID, ui.MsgAuthRequired)
		return StateMain
	}

	profile, err := b.lms.Profile(ctx, creds.Token)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("chat_id", session.ChatID).Msg("Failed to load profile")
		b.sendMessage(session.ChatID, ui.MsgProfileFailed+". "+eduapp.UserMessage(err))
		return StateMain
	}

	text, err := b.renderer.Profile(profile)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to render profile")
		b.sendMessage(session.ChatID, ui.MsgProfileFailed)
		return StateMain
	}
	b.sendHTML(session.ChatID, text)
	return StateMain
}

// handleQuestionsPage листает список вопросов. Курсор не выходит за [1, maxPage].
func (b *Bot) handleQuestionsPage(session *models.Session, label string) StateID {
	if label == ui.ButtonNextFive {
		session.QuestionsPage++
	} else {
		session.QuestionsPage--
	}
	session.QuestionsPage = models.ClampPage(session.QuestionsPage, session.QuestionsMaxPage())
	return StateQuestions
}

// handleCommentsPage сдвигает окно сообщений: +1 к более старым, -1 к более новым.
// Верхнюю границу проверяет построение экрана, когда известно число сообщений.
func (b *Bot) handleCommentsPage(session *models.Session, delta int) StateID {
	session.CommentsPage += delta
	if session.CommentsPage < 1 {
		session.CommentsPage = 1
	}
	return StateQuestionChat
}

func (b *Bot) handleAsk(session *models.Session) StateID {
	link := eduapp.DiscussionURL(b.config.EduApp.SiteURL, session.DiscussionID)
	b.sendMessage(session.ChatID, fmt.Sprintf(ui.MsgAskLink, link))
	return StateQuestions
}
