package countdown

import (
	"sync"
	"time"
)

var _ Clock = (*TestClock)(nil)

// TestClock hands out tickers that only fire when Tick is called.
type TestClock struct {
	mutex   sync.Mutex
	now     time.Time
	tickers []*testTicker
	created int
}

func NewTestClock(now time.Time) *TestClock {
	return &TestClock{now: now}
}

func (c *TestClock) NewTicker(d time.Duration) Ticker {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	t := &testTicker{
		clock:    c,
		interval: d,
		ch:       make(chan time.Time),
		stopped:  make(chan struct{}),
	}
	c.tickers = append(c.tickers, t)
	c.created++
	return t
}

// Tick advances the clock by one interval and delivers it to every live
// ticker. It returns the number of tickers that received the tick; it only
// returns once each receiving controller has picked the tick up.
func (c *TestClock) Tick() int {
	c.mutex.Lock()
	live := make([]*testTicker, len(c.tickers))
	copy(live, c.tickers)
	c.mutex.Unlock()

	delivered := 0
	for _, t := range live {
		c.mutex.Lock()
		c.now = c.now.Add(t.interval)
		now := c.now
		c.mutex.Unlock()

		select {
		case t.ch <- now:
			delivered++
		case <-t.stopped:
		}
	}
	return delivered
}

// ActiveTickers is the number of tickers created and not yet stopped.
func (c *TestClock) ActiveTickers() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.tickers)
}

// CreatedTickers is the total number of tickers ever created.
func (c *TestClock) CreatedTickers() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.created
}

func (c *TestClock) remove(t *testTicker) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for i, ticker := range c.tickers {
		if ticker == t {
			c.tickers = append(c.tickers[:i], c.tickers[i+1:]...)
			return
		}
	}
}

type testTicker struct {
	clock    *TestClock
	interval time.Duration
	ch       chan time.Time
	stopped  chan struct{}
	once     sync.Once
}

func (t *testTicker) C() <-chan time.Time {
	return t.ch
}

func (t *testTicker) Stop() {
	t.once.Do(func() {
		close(t.stopped)
		t.clock.remove(t)
	})
}
