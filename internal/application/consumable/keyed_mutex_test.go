package consumable

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesPerKey(t *testing.T) {
	km := newKeyedMutex()
	key := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock(key)
			defer km.Unlock(key)
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := newKeyedMutex()
	first := uuid.New()
	second := uuid.New()

	km.Lock(first)
	done := make(chan struct{})
	go func() {
		km.Lock(second)
		km.Unlock(second)
		close(done)
	}()

	// A second key must not wait for the first
	<-done
	km.Unlock(first)
}

func TestKeyedMutex_ReleasesIdleEntries(t *testing.T) {
	km := newKeyedMutex()
	key := uuid.New()

	km.Lock(key)
	km.Unlock(key)

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks)
}
