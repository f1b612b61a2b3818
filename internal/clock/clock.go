package clock

import (
	"sync"
	"time"
)

// Clock 统一时间来源，便于测试/回放时替换
type Clock interface {
	Now() time.Time
}

// System 使用系统时间
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fake 可手工设置/推进的时钟，仅用于测试与回放
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

func NewFake(start time.Time) *Fake { return &Fake{now: start} }

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set 直接设置当前时间
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// Advance 向前推进时钟
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
