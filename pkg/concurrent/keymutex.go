// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import "sync"

// KeyMutex serializes work per string key. The hop log on a participant row is
// maintained with a read-modify-write cycle, so two webhook deliveries for the
// same (session, participant) pair must not interleave their store writes.
// Locks are created on demand and removed once no goroutine holds or waits on
// them, so the map does not grow with the number of keys ever seen.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyMutex creates a new per-key mutex.
func NewKeyMutex() *KeyMutex {
	return &KeyMutex{
		locks: make(map[string]*keyLock),
	}
}

// Lock acquires the lock for the given key, blocking until it is available.
// It returns the function that releases the lock.
func (k *KeyMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
