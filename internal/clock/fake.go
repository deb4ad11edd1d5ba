package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock for tests.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*FakeTicker
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &FakeTicker{c: make(chan time.Time), period: d}
	f.tickers = append(f.tickers, t)
	return t
}

// Advance moves time forward by d and delivers one tick stamped with the new
// time to every live ticker. It returns how many ticks were consumed; a
// ticker whose reader does not take the tick within wait is skipped.
func (f *Fake) Advance(d time.Duration, wait time.Duration) int {
	f.mu.Lock()
	f.now = f.now.Add(d)
	now := f.now
	live := make([]*FakeTicker, 0, len(f.tickers))
	for _, t := range f.tickers {
		if !t.Stopped() {
			live = append(live, t)
		}
	}
	f.tickers = live
	f.mu.Unlock()

	delivered := 0
	for _, t := range live {
		if t.fire(now, wait) {
			delivered++
		}
	}
	return delivered
}

// Live returns the number of tickers that have not been stopped.
func (f *Fake) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickers {
		if !t.Stopped() {
			n++
		}
	}
	return n
}

type FakeTicker struct {
	mu      sync.Mutex
	c       chan time.Time
	period  time.Duration
	stopped bool
}

func (t *FakeTicker) C() <-chan time.Time { return t.c }

func (t *FakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *FakeTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *FakeTicker) Period() time.Duration { return t.period }

func (t *FakeTicker) fire(now time.Time, wait time.Duration) bool {
	if t.Stopped() {
		return false
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case t.c <- now:
		return true
	case <-timer.C:
		return false
	}
}
