// Package keymutex provides a mutex per string key.
//
// Locks for different keys never contend. Entries are reference counted
// and removed when the last holder unlocks, so the map only holds keys
// that are currently in use.
package keymutex

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyMutex is a set of mutexes addressed by key. The zero value is ready to use.
type KeyMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// Lock blocks until the mutex for key is held and returns its unlock func.
func (k *KeyMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.entries == nil {
		k.entries = make(map[string]*entry)
	}
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}

// Len returns the number of keys currently locked or waited on.
func (k *KeyMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
