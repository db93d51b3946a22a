package domain

import (
	"context"
	"time"

	"eduappbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type SessionRepository interface {
	GetSession(ctx context.Context, chatID int64) (*models.Session, error)
	SaveSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, chatID int64) error
	CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error)
}

type SessionManager interface {
	GetSession(ctx context.Context, chatID int64) (*models.Session, error)
	SaveSession(ctx context.Context, session *models.Session) error
	ResetSession(ctx context.Context, chatID int64) error
	CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error)
}

type CredentialStore interface {
	Get(chatID int64) (*models.Credentials, bool)
	Set(chatID int64, creds *models.Credentials)
	Delete(chatID int64)
}

// LMSClient узкий интерфейс к API EduApp.
type LMSClient interface {
	Login(ctx context.Context, username, password string) (token string, profile *models.Profile, err error)
	Profile(ctx context.Context, token string) (*models.Profile, error)
	Calendar(ctx context.Context, token string, start, end time.Time) (*models.Calendar, error)
	Questions(ctx context.Context, token string, page, size int) (*models.QuestionPage, error)
	Comments(ctx context.Context, token string, discussionID int64) ([]models.Comment, error)
}

type AuthService interface {
	Login(ctx context.Context, chatID int64, username, password string) (*models.Credentials, error)
	Relogin(ctx context.Context, chatID int64) (*models.Credentials, error)
	Credentials(chatID int64) (*models.Credentials, bool)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendHTML(chatID int64, text string) (tgbotapi.Message, error)
	Reply(chatID int64, replyTo int, text string) (tgbotapi.Message, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	DeleteMessage(chatID int64, messageID int) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type AccessChecker interface {
	IsBlacklisted(userID int64) bool
}
