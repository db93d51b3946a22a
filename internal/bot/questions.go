package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"eduappbot/internal/eduapp"
	"eduappbot/internal/models"
	"eduappbot/internal/ui"

	"github.com/rs/zerolog"
)

// buildQuestions строит список вопросов для текущей страницы. Если страница
// не загрузилась, пробует предыдущую; ошибка на первой странице ведет в главное меню.
func (b *Bot) buildQuestions(ctx context.Context, session *models.Session) screen {
	creds, ok := b.auth.Credentials(session.ChatID)
	if !ok {
		b.sendMessage(session.ChatID, ui.MsgAuthRequired)
		return staticScreen(StateMain)
	}

	for {
		text, err := b.loadQuestions(ctx, session, creds.Token)
		if err == nil {
			return questionsScreen(text, session.QuestionsPage, session.QuestionsTotal)
		}

		zerolog.Ctx(ctx).Warn().Err(err).Int("page", session.QuestionsPage).Msg("Failed to build questions page")
		b.sendMessage(session.ChatID, eduapp.UserMessage(err))
		if session.QuestionsPage <= 1 {
			session.QuestionsPage = 1
			return staticScreen(StateMain)
		}
		session.QuestionsPage--
	}
}

func (b *Bot) loadQuestions(ctx context.Context, session *models.Session, token string) (string, error) {
	page, err := b.lms.Questions(ctx, token, session.QuestionsPage, models.QuestionsPageSize)
	if err != nil {
		return "", err
	}
	text, err := b.renderer.QuestionList(page, models.QuestionsPageSize)
	if err != nil {
		return "", err
	}
	session.QuestionsTotal = page.Total
	session.QuestionsOnPage = len(page.Questions)
	return text, nil
}

// handleQuestionNumberInput принимает номер вопроса из диапазона [1, page*5],
// номер сводится к позиции на текущей странице как (n-1) mod 5.
func (b *Bot) handleQuestionNumberInput(ctx context.Context, session *models.Session, text string) {
	index, ok := questionIndex(text, session.QuestionsPage, session.QuestionsOnPage)
	if !ok {
		scr := staticScreen(StateQuestionNumber)
		scr.prompt = fmt.Sprintf(ui.MsgQuestionRange, session.QuestionsPage*models.QuestionsPageSize)
		b.render(ctx, session, scr)
		return
	}

	session.QuestionIndex = index
	session.CommentsPage = 1
	b.enter(ctx, session, StateQuestionChat)
}

func questionIndex(text string, page, onPage int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > page*models.QuestionsPageSize {
		return 0, false
	}
	index := (n - 1) % models.QuestionsPageSize
	if index >= onPage {
		return 0, false
	}
	return index, true
}

// buildQuestionChat открывает выбранный вопрос и окно сообщений текущей страницы.
func (b *Bot) buildQuestionChat(ctx context.Context, session *models.Session) screen {
	l := zerolog.Ctx(ctx)
	creds, ok := b.auth.Credentials(session.ChatID)
	if !ok {
		b.sendMessage(session.ChatID, ui.MsgAuthRequired)
		return staticScreen(StateMain)
	}

	page, err := b.lms.Questions(ctx, creds.Token, session.QuestionsPage, models.QuestionsPageSize)
	if err == nil && (session.QuestionIndex < 0 || session.QuestionIndex >= len(page.Questions)) {
		err = fmt.Errorf("%w: question %d on page %d", eduapp.ErrPageOutOfRange, session.QuestionIndex+1, session.QuestionsPage)
	}
	if err != nil {
		l.Warn().Err(err).Msg("Failed to open question")
		b.sendMessage(session.ChatID, eduapp.UserMessage(err))
		return b.buildQuestions(ctx, session)
	}
	session.QuestionsTotal = page.Total
	session.QuestionsOnPage = len(page.Questions)
	question := page.Questions[session.QuestionIndex]

	comments, err := b.lms.Comments(ctx, creds.Token, question.ID)
	if err != nil {
		l.Warn().Err(err).Int64("discussion_id", question.ID).Msg("Failed to load comments")
		b.sendMessage(session.ChatID, eduapp.UserMessage(err))
		return b.buildQuestions(ctx, session)
	}

	session.DiscussionID = question.ID
	session.CommentsPage = models.ClampPage(session.CommentsPage, models.MaxPage(len(comments), models.CommentsPageSize))

	text, err := b.renderer.Thread(question, comments, session.CommentsPage, models.CommentsPageSize, creds.Username)
	if err != nil {
		l.Error().Err(err).Msg("Failed to render question")
		b.sendMessage(session.ChatID, eduapp.UserMessage(err))
		return b.buildQuestions(ctx, session)
	}
	return questionChatScreen(text, len(comments), session.CommentsPage)
}
