package app

import (
	"sync"
	"time"
)

// MonotonicClock 单调时钟，按到达顺序返回的时间不会倒退
// 系统时间被回拨时沿用上一次的时间
type MonotonicClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewMonotonicClock 创建单调时钟，now 为 nil 时使用 TimenowInTimezone
func NewMonotonicClock(now func() time.Time) *MonotonicClock {
	if now == nil {
		now = TimenowInTimezone
	}
	return &MonotonicClock{now: now}
}

// Now 返回当前时间，保证不小于上一次返回值
func (c *MonotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now()
	if t.Before(c.last) {
		return c.last
	}
	c.last = t
	return t
}
