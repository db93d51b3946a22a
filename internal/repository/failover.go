package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"eduappbot/internal/domain"
	"eduappbot/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSessionRepository пишет в основное хранилище (Redis) и переключается
// на резервное (память), пока основное недоступно.
type FailoverSessionRepository struct {
	primary  domain.SessionRepository
	fallback domain.SessionRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
	retryIn   time.Duration
	// touched чаты, чьи сессии менялись в резервном хранилище во время сбоя
	touched map[int64]struct{}
}

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		retryIn:  time.Minute,
		touched:  make(map[int64]struct{}),
	}
}

func (r *FailoverSessionRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
	r.isDown.Store(true)
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

// shouldRetry сообщает, пора ли снова попробовать основное хранилище.
func (r *FailoverSessionRepository) shouldRetry() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.lastCheck) <= r.retryIn {
		return false
	}
	r.lastCheck = time.Now()
	return true
}

func (r *FailoverSessionRepository) usePrimary() bool {
	return !r.isDown.Load() || r.shouldRetry()
}

func (r *FailoverSessionRepository) markTouched(chatID int64) {
	r.mu.Lock()
	r.touched[chatID] = struct{}{}
	r.mu.Unlock()
}

// takeTouched снимает отметку и сообщает, была ли она.
func (r *FailoverSessionRepository) takeTouched(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.touched[chatID]
	delete(r.touched, chatID)
	return ok
}

func (r *FailoverSessionRepository) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	if r.usePrimary() {
		session, err := r.primary.GetSession(ctx, chatID)
		if err == nil {
			if r.isDown.Swap(false) {
				r.logger.Info().Msg("Primary session repository recovered")
			}
			if r.takeTouched(chatID) {
				return r.restoreFromFallback(ctx, chatID)
			}
			return session, nil
		}
		r.markDown(err)
	}

	return r.fallback.GetSession(ctx, chatID)
}

// restoreFromFallback переносит в основное хранилище сессию, измененную во время
// сбоя. Сессия в Redis старше, поэтому верна копия из памяти, а ее отсутствие
// означает сброс.
func (r *FailoverSessionRepository) restoreFromFallback(ctx context.Context, chatID int64) (*models.Session, error) {
	session, err := r.fallback.GetSession(ctx, chatID)
	if err != nil {
		r.markTouched(chatID)
		return nil, err
	}

	if session == nil {
		err = r.primary.ClearSession(ctx, chatID)
	} else {
		err = r.primary.SaveSession(ctx, session)
	}
	if err != nil {
		r.markDown(err)
		r.markTouched(chatID)
		return session, nil
	}

	if session != nil {
		_ = r.fallback.ClearSession(ctx, chatID)
	}
	r.logger.Info().Int64("chat_id", chatID).Msg("Session restored from fallback repository")
	return session, nil
}

func (r *FailoverSessionRepository) SaveSession(ctx context.Context, session *models.Session) error {
	if !r.isDown.Load() {
		err := r.primary.SaveSession(ctx, session)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	r.markTouched(session.ChatID)
	return r.fallback.SaveSession(ctx, session)
}

// ClearSession сбрасывает сессию в обоих хранилищах, чтобы старая копия
// не вернулась после восстановления Redis.
func (r *FailoverSessionRepository) ClearSession(ctx context.Context, chatID int64) error {
	if !r.isDown.Load() {
		if err := r.primary.ClearSession(ctx, chatID); err != nil {
			r.markDown(err)
		}
	}

	if r.isDown.Load() {
		r.markTouched(chatID)
	} else {
		r.takeTouched(chatID)
	}
	return r.fallback.ClearSession(ctx, chatID)
}

func (r *FailoverSessionRepository) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, chatID, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, chatID, limit, window)
}
