package service

import (
	"errors"
	"sync"
)

// ErrNoSession is returned when no session id was given and nothing is
// bookmarked.
var ErrNoSession = errors.New("no session selected: run `tetsunavi start` or pass --session")

// deref adapts a pointer-returning backend call to the value types the
// cache stores.
func deref[T any](v *T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	return *v, nil
}

// keyedMutex hands out one mutex per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}
