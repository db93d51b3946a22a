package repository

import (
	"sync"
	"testing"

	"eduappbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCredentialStore(t *testing.T) {
	store := NewMemoryCredentialStore()

	_, ok := store.Get(1)
	assert.False(t, ok)

	store.Set(1, &models.Credentials{Username: "alice", Password: "secret", Token: "t1"})
	got, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)

	got.Token = "mutated"
	again, _ := store.Get(1)
	assert.Equal(t, "t1", again.Token)

	store.Set(1, nil)
	again, ok = store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "t1", again.Token)

	store.Delete(1)
	_, ok = store.Get(1)
	assert.False(t, ok)
}

func TestMemoryCredentialStoreConcurrent(t *testing.T) {
	store := NewMemoryCredentialStore()
	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Set(id, &models.Credentials{Username: "u", Password: "p"})
			_, _ = store.Get(id)
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 50; i++ {
		_, ok := store.Get(i)
		assert.True(t, ok)
	}
}
