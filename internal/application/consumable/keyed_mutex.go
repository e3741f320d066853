package consumable

import (
	"sync"

	"github.com/google/uuid"
)

// keyedMutex serializes ledger operations per consumable. The database
// transaction plus row lock already protects the stock record, but the replay
// reads and rewrites many ledger rows; running two reconciliations for the
// same consumable concurrently would deadlock or abort one of them, so they
// queue here instead.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*entryLock
}

type entryLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uuid.UUID]*entryLock)}
}

// Lock acquires the mutex for the given key, blocking until it is free.
func (k *keyedMutex) Lock(key uuid.UUID) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &entryLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the mutex for the given key. Entries with no waiters are
// removed so the map does not grow with the number of consumables ever seen.
func (k *keyedMutex) Unlock(key uuid.UUID) {
	k.mu.Lock()
	l := k.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	l.mu.Unlock()
}
