package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"eduappbot/internal/config"
	"eduappbot/internal/eduapp"
	"eduappbot/internal/models"
	"eduappbot/internal/repository"
	"eduappbot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// recordingSender записывает каждый исходящий Chattable.
type recordingSender struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	updates chan tgbotapi.Update
	stopped bool
	// failKeyboard отклоняет отправку экранов с клавиатурой
	failKeyboard bool
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok && s.failKeyboard {
		if _, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup); ok {
			return tgbotapi.Message{}, errors.New("Bad Request: message is too long")
		}
	}
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, nil
}

func (s *recordingSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (s *recordingSender) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return s.updates
}

func (s *recordingSender) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "eduapp_test_bot"}
}

func (s *recordingSender) StopReceivingUpdates() {
	s.stopped = true
}

type sentMessage struct {
	ChatID    int64
	Text      string
	Buttons   []string
	ParseMode string
	ReplyTo   int
}

func (s *recordingSender) messages() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sentMessage
	for _, c := range s.sent {
		msg, ok := c.(tgbotapi.MessageConfig)
		if !ok {
			continue
		}
		m := sentMessage{ChatID: msg.ChatID, Text: msg.Text, ParseMode: msg.ParseMode, ReplyTo: msg.ReplyToMessageID}
		if kb, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup); ok {
			for _, row := range kb.Keyboard {
				for _, btn := range row {
					m.Buttons = append(m.Buttons, btn.Text)
				}
			}
		}
		out = append(out, m)
	}
	return out
}

func (s *recordingSender) deleted() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for _, c := range s.sent {
		if del, ok := c.(tgbotapi.DeleteMessageConfig); ok {
			out = append(out, del.MessageID)
		}
	}
	return out
}

func (s *recordingSender) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}

type calendarCall struct {
	Token      string
	Start, End time.Time
}

// fakeLMS EduApp в памяти.
type fakeLMS struct {
	mu sync.Mutex

	passwords map[string]string
	loginErr  error
	logins    int

	profile    *models.Profile
	profileErr error

	calendar      *models.Calendar
	calendarErrs  []error
	calendarCalls []calendarCall

	questions    []models.Question
	questionErrs map[int]error

	comments      []models.Comment
	commentsErr   error
	commentsCalls []int64
}

func newFakeLMS() *fakeLMS {
	return &fakeLMS{
		passwords:    map[string]string{"alice": "secret"},
		profile:      &models.Profile{ID: 1, FirstName: "Алиса", LastName: "Иванова"},
		questionErrs: make(map[int]error),
	}
}

func (f *fakeLMS) Login(_ context.Context, username, password string) (string, *models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	if f.passwords[username] != password {
		return "", nil, eduapp.ErrInvalidCredentials
	}
	return "jwt-" + username, f.profile, nil
}

func (f *fakeLMS) Profile(context.Context, string) (*models.Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeLMS) Calendar(_ context.Context, token string, start, end time.Time) (*models.Calendar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calendarCalls = append(f.calendarCalls, calendarCall{Token: token, Start: start, End: end})
	if len(f.calendarErrs) > 0 {
		err := f.calendarErrs[0]
		f.calendarErrs = f.calendarErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if f.calendar == nil {
		return &models.Calendar{Start: start, End: end}, nil
	}
	return f.calendar, nil
}

func (f *fakeLMS) Questions(_ context.Context, _ string, page, size int) (*models.QuestionPage, error) {
	if err := f.questionErrs[page]; err != nil {
		return nil, err
	}
	from := (page - 1) * size
	if page < 1 || (from >= len(f.questions) && !(page == 1 && len(f.questions) == 0)) {
		return nil, eduapp.ErrPageOutOfRange
	}
	to := from + size
	if to > len(f.questions) {
		to = len(f.questions)
	}
	return &models.QuestionPage{Page: page, Total: len(f.questions), Questions: f.questions[from:to]}, nil
}

func (f *fakeLMS) Comments(_ context.Context, _ string, discussionID int64) ([]models.Comment, error) {
	f.mu.Lock()
	f.commentsCalls = append(f.commentsCalls, discussionID)
	f.mu.Unlock()
	if f.commentsErr != nil {
		return nil, f.commentsErr
	}
	return f.comments, nil
}

func makeQuestions(n int) []models.Question {
	out := make([]models.Question, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Question{
			ID:      int64(100 + i),
			Subject: fmt.Sprintf("Тема %d", i),
			Teacher: "Борис Смирнов",
			Date:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		})
	}
	return out
}

// makeComments сообщения от старых к новым: "msg 1" ... "msg n".
func makeComments(n int) []models.Comment {
	out := make([]models.Comment, 0, n)
	for i := 1; i <= n; i++ {
		author := "alice"
		if i%2 == 0 {
			author = "teacher"
		}
		out = append(out, models.Comment{Author: author, Message: fmt.Sprintf("msg %d", i)})
	}
	return out
}

type harness struct {
	t         *testing.T
	bot       *Bot
	tg        *recordingSender
	lms       *fakeLMS
	creds     *repository.MemoryCredentialStore
	sessions  *service.SessionService
	messageID int
}

const testChat = int64(1001)

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zerolog.Nop()
	tg := &recordingSender{updates: make(chan tgbotapi.Update, 10)}
	lms := newFakeLMS()
	creds := repository.NewMemoryCredentialStore()
	sessions := service.NewSessionService(repository.NewMemorySessionRepository(time.Hour), &logger)
	auth := service.NewAuthService(lms, creds, nil, &logger)

	cfg := &config.Config{
		EduApp: config.EduAppConfig{SiteURL: "https://my.informatics.ru"},
		Bot:    config.BotConfig{UpdateTimeout: 5},
	}

	b, err := NewBot(service.NewTelegramService(tg), cfg, sessions, auth, lms, service.NewAccessService([]int64{666}), nil, nil, &logger)
	require.NoError(t, err)
	b.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	return &harness{t: t, bot: b, tg: tg, lms: lms, creds: creds, sessions: sessions}
}

func (h *harness) sendFrom(chatID, userID int64, text string) {
	h.messageID++
	h.bot.processUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: h.messageID,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{ID: userID, UserName: "student"},
		Text:      text,
	}})
}

func (h *harness) send(text string) {
	h.sendFrom(testChat, testChat, text)
}

// sendAll отправляет сообщения и сбрасывает записанные ответы.
func (h *harness) sendAll(texts ...string) {
	for _, text := range texts {
		h.send(text)
	}
	h.tg.reset()
}

func (h *harness) login() {
	h.sendAll(commandStart, "Авторизация", "alice", "secret")
}

func (h *harness) session() *models.Session {
	s, err := h.sessions.GetSession(context.Background(), testChat)
	require.NoError(h.t, err)
	return s
}

func (h *harness) last() sentMessage {
	msgs := h.tg.messages()
	require.NotEmpty(h.t, msgs)
	return msgs[len(msgs)-1]
}

func (h *harness) texts() []string {
	var out []string
	for _, m := range h.tg.messages() {
		out = append(out, m.Text)
	}
	return out
}

var errBoom = errors.New("boom")
