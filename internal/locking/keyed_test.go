package locking

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedSerializesSameKey(t *testing.T) {
	k := NewKeyed()

	var inside, max int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := k.Do("same", func() error {
				mu.Lock()
				inside++
				if inside > max {
					max = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, max, "same key must never run concurrently")
}

func TestKeyedReleasesEntries(t *testing.T) {
	k := NewKeyed()
	require.NoError(t, k.Do("a", func() error { return nil }))
	require.NoError(t, k.Do("b", func() error { return nil }))

	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.locks, "entries should be removed once unused")
}

func TestDayKey(t *testing.T) {
	day := time.Date(2026, 4, 2, 13, 30, 0, 0, time.UTC)

	barber := uint(7)
	assert.Equal(t, "bookings:3:7:2026-04-02", DayKey(3, &barber, day))
	assert.Equal(t, "bookings:3:0:2026-04-02", DayKey(3, nil, day))
}
