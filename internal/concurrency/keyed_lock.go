package concurrency

import (
	"sync"
)

// KeyedLock hands out one mutex per key.
// Keys are never evicted, so use it for bounded key spaces (villages, actions).
type KeyedLock struct {
	locks sync.Map
}

// NewKeyedLock creates a new KeyedLock
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{}
}

// Lock acquires the mutex for key and returns its unlock func
func (kl *KeyedLock) Lock(key string) func() {
	lock, _ := kl.locks.LoadOrStore(key, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
