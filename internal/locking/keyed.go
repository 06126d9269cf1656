// Package locking provides the per-key critical section used when the
// booking ledger runs single-instance. The gorm repository layers a
// postgres advisory lock on top of this for multi-instance deployments.
package locking

import (
	"fmt"
	"sync"
	"time"
)

// Keyed serializes callers that share a key; callers on distinct keys
// proceed concurrently.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*entry)}
}

// Do runs fn while holding the key's lock.
func (k *Keyed) Do(key string, fn func() error) error {
	e := k.acquire(key)
	defer k.release(key, e)

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn()
}

func (k *Keyed) acquire(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	return e
}

func (k *Keyed) release(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}

// DayKey builds the contention key for one (barbershop, barber, day)
// timeline. A nil barber (exclusive shop) maps to 0 so the whole shop
// shares one key.
func DayKey(barbershopID uint, barberID *uint, day time.Time) string {
	var b uint
	if barberID != nil {
		b = *barberID
	}
	return fmt.Sprintf("bookings:%d:%d:%s", barbershopID, b, day.Format("2006-01-02"))
}
