package repository

import (
	"sync"

	"eduappbot/internal/models"
)

// MemoryCredentialStore кэш учетных данных EduApp по чатам.
// Пароли намеренно не покидают память процесса, поэтому Redis-варианта нет.
type MemoryCredentialStore struct {
	mu    sync.RWMutex
	creds map[int64]models.Credentials
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{creds: make(map[int64]models.Credentials)}
}

func (s *MemoryCredentialStore) Get(chatID int64) (*models.Credentials, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.creds[chatID]
	if !ok {
		return nil, false
	}
	return &c, true
}

func (s *MemoryCredentialStore) Set(chatID int64, creds *models.Credentials) {
	if creds == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[chatID] = *creds
}

func (s *MemoryCredentialStore) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, chatID)
}
