package service

import (
	"context"
	"time"

	"eduappbot/internal/domain"
	"eduappbot/internal/models"

	"github.com/rs/zerolog"
)

type SessionService struct {
	repo   domain.SessionRepository
	logger *zerolog.Logger
	now    func() time.Time
}

func NewSessionService(repo domain.SessionRepository, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// GetSession возвращает сессию чата; для нового чата создается пустая сессия
// без состояния, ее сохранит первый переход.
func (s *SessionService) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	session, err := s.repo.GetSession(ctx, chatID)
	if err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to get session")
		return nil, err
	}
	if session == nil {
		return models.NewSession(chatID), nil
	}

	// Курсоры могли прийти из старой записи, где они не были заполнены
	session.QuestionsPage = models.ClampPage(session.QuestionsPage, session.QuestionsMaxPage())
	if session.CommentsPage < 1 {
		session.CommentsPage = 1
	}
	return session, nil
}

func (s *SessionService) SaveSession(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = s.now()
	if err := s.repo.SaveSession(ctx, session); err != nil {
		s.logger.Error().Err(err).Int64("chat_id", session.ChatID).Msg("failed to save session")
		return err
	}
	return nil
}

func (s *SessionService) ResetSession(ctx context.Context, chatID int64) error {
	return s.repo.ClearSession(ctx, chatID)
}

func (s *SessionService) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	return s.repo.CheckRateLimit(ctx, chatID, limit, window)
}
