package app

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonotonicClock_NeverGoesBackwards(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ticks := []time.Time{
		base,
		base.Add(2 * time.Second),
		base.Add(-5 * time.Minute), // 系统时间回拨
		base.Add(3 * time.Second),
	}
	i := 0
	clock := NewMonotonicClock(func() time.Time {
		t := ticks[i]
		i++
		return t
	})

	got := []time.Time{clock.Now(), clock.Now(), clock.Now(), clock.Now()}

	assert.Equal(t, base, got[0])
	assert.Equal(t, base.Add(2*time.Second), got[1])
	assert.Equal(t, base.Add(2*time.Second), got[2])
	assert.Equal(t, base.Add(3*time.Second), got[3])
}

func TestMonotonicClock_ConcurrentCallers(t *testing.T) {
	clock := NewMonotonicClock(time.Now)

	var wg sync.WaitGroup
	results := make(chan time.Time, 100)
	for n := 0; n < 100; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- clock.Now()
		}()
	}
	wg.Wait()
	close(results)

	assert.Len(t, results, 100)
	// 最后一次返回值不早于任何一次调用
	final := clock.Now()
	for r := range results {
		assert.False(t, final.Before(r))
	}
}

func TestLocation_FallsBackToFixedZone(t *testing.T) {
	loc := Location()
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 8*60*60, offset)
}
