package queue

import (
	"sync"
	"time"
)

// Clock creates tickers. Tests swap in a FakeClock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock returns a clock backed by time.Ticker.
func RealClock() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time { return t.ticker.C }
func (t *realTicker) Stop()               { t.ticker.Stop() }

// FakeClock is a virtual clock whose tickers only fire on Tick.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

// NewFakeClock creates a fake clock.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Unix(0, 0)}
}

func (c *FakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time), period: d}
	c.tickers = append(c.tickers, t)
	return t
}

// Tick advances the clock by one period of the newest running ticker and
// delivers the tick. It blocks until the tick has been received.
func (c *FakeClock) Tick() {
	c.mu.Lock()
	var target *fakeTicker
	for i := len(c.tickers) - 1; i >= 0; i-- {
		if !c.tickers[i].stopped() {
			target = c.tickers[i]
			break
		}
	}
	if target == nil {
		c.mu.Unlock()
		return
	}
	c.now = c.now.Add(target.period)
	now := c.now
	c.mu.Unlock()

	target.c <- now
}

// Created returns how many tickers were created.
func (c *FakeClock) Created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// Running returns how many tickers were created and not stopped.
func (c *FakeClock) Running() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.stopped() {
			n++
		}
	}
	return n
}

type fakeTicker struct {
	c      chan time.Time
	period time.Duration

	mu   sync.Mutex
	done bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = true
}

func (t *fakeTicker) stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}
