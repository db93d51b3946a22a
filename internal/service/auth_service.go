package service

import (
	"context"
	"errors"
	"time"

	"eduappbot/internal/domain"
	"eduappbot/internal/events"
	"eduappbot/internal/models"

	"github.com/rs/zerolog"
)

// ErrNotAuthorized чат еще не входил в EduApp.
var ErrNotAuthorized = errors.New("chat is not authorized in eduapp")

type AuthService struct {
	client domain.LMSClient
	creds  domain.CredentialStore
	events domain.EventPublisher
	logger *zerolog.Logger
	now    func() time.Time
}

func NewAuthService(client domain.LMSClient, creds domain.CredentialStore, publisher domain.EventPublisher, logger *zerolog.Logger) *AuthService {
	return &AuthService{
		client: client,
		creds:  creds,
		events: publisher,
		logger: logger,
		now:    time.Now,
	}
}

// Login входит в EduApp и при успехе сохраняет учетные данные чата.
// При ошибке ранее сохраненные данные не меняются.
func (s *AuthService) Login(ctx context.Context, chatID int64, username, password string) (*models.Credentials, error) {
	token, profile, err := s.client.Login(ctx, username, password)
	if err != nil {
		s.logger.Info().Err(err).Int64("chat_id", chatID).Str("username", username).Msg("eduapp login failed")
		s.publish(events.EventAuthFailed, chatID, username, err)
		return nil, err
	}

	creds := &models.Credentials{
		Username: username,
		Password: password,
		Token:    token,
		FullName: profile.FullName(),
	}
	s.creds.Set(chatID, creds)
	s.publish(events.EventAuthSucceeded, chatID, username, nil)
	return creds, nil
}

// Relogin повторяет вход с сохраненными логином и паролем и обновляет токен.
func (s *AuthService) Relogin(ctx context.Context, chatID int64) (*models.Credentials, error) {
	current, ok := s.creds.Get(chatID)
	if !ok || !current.Valid() {
		return nil, ErrNotAuthorized
	}

	token, profile, err := s.client.Login(ctx, current.Username, current.Password)
	s.publish(events.EventAuthRelogin, chatID, current.Username, err)
	if err != nil {
		s.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("eduapp relogin failed")
		return nil, err
	}

	updated := *current
	updated.Token = token
	if name := profile.FullName(); name != "" {
		updated.FullName = name
	}
	s.creds.Set(chatID, &updated)
	return &updated, nil
}

func (s *AuthService) Credentials(chatID int64) (*models.Credentials, bool) {
	creds, ok := s.creds.Get(chatID)
	if !ok || creds.Token == "" {
		return nil, false
	}
	return creds, true
}

func (s *AuthService) publish(eventType string, chatID int64, username string, cause error) {
	if s.events == nil {
		return
	}
	payload := events.AuthEventPayload{ChatID: chatID, Username: username, At: s.now()}
	if cause != nil {
		payload.Reason = cause.Error()
	}
	if err := s.events.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("failed to publish auth event")
	}
}
