// Package queue sequences dialogue lines through the correction processor at
// a fixed cadence, one line per tick.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/at-ishikawa/dialogfix/internal/dialogue"
)

//go:generate mockgen -source=queue.go -destination=../mocks/queue/mock_queue.go -package=mock_queue

const (
	DefaultTickInterval = time.Second
	DefaultMaxRetries   = 5
	DefaultFailureText  = "翻譯失敗，請稍後再試"
)

var (
	// ErrStopped is returned when enqueueing into a closed queue.
	ErrStopped = errors.New("queue stopped")
	// ErrRunning is returned when Run is called twice.
	ErrRunning = errors.New("queue already running")
)

// Handler corrects dialogue lines.
type Handler interface {
	ShouldSkip(line dialogue.Line, profile dialogue.Profile) bool
	Process(ctx context.Context, line dialogue.Line, profile dialogue.Profile) (dialogue.Presentation, error)
}

// Outcome is what happened to a dequeued item.
type Outcome string

const (
	OutcomeDone      Outcome = "done"
	OutcomeRetried   Outcome = "retried"
	OutcomeExhausted Outcome = "exhausted"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeDropped   Outcome = "dropped"
)

// Observer is told about queue activity.
type Observer interface {
	Observe(outcome Outcome, elapsed time.Duration)
	Depth(n int)
}

type nopObserver struct{}

func (nopObserver) Observe(Outcome, time.Duration) {}
func (nopObserver) Depth(int)                      {}

// Item is a queued line.
type Item struct {
	Line       dialogue.Line
	Profile    dialogue.Profile
	RetryCount int
}

// Options configures a Queue. Zero values select the defaults, except
// MaxRetries: zero gives up after the first failure and a negative value
// selects DefaultMaxRetries.
type Options struct {
	TickInterval time.Duration
	MaxRetries   int
	FailureText  string
	Clock        Clock
	Observer     Observer
}

// Queue is a FIFO drained by a single worker, one item per tick.
type Queue struct {
	handler   Handler
	presenter dialogue.Presenter

	interval    time.Duration
	maxRetries  int
	failureText string
	clock       Clock
	observer    Observer

	mu         sync.Mutex
	items      []Item
	generation uint64
	ticker     Ticker
	running    bool
	closed     bool
	reset      chan struct{}
}

// New creates a queue.
func New(handler Handler, presenter dialogue.Presenter, opts Options) *Queue {
	q := &Queue{
		handler:     handler,
		presenter:   presenter,
		interval:    opts.TickInterval,
		maxRetries:  opts.MaxRetries,
		failureText: opts.FailureText,
		clock:       opts.Clock,
		observer:    opts.Observer,
		reset:       make(chan struct{}, 1),
	}
	if q.interval <= 0 {
		q.interval = DefaultTickInterval
	}
	if q.maxRetries < 0 {
		q.maxRetries = DefaultMaxRetries
	}
	if q.failureText == "" {
		q.failureText = DefaultFailureText
	}
	if q.clock == nil {
		q.clock = RealClock()
	}
	if q.observer == nil {
		q.observer = nopObserver{}
	}
	return q
}

// Enqueue appends a line at the tail.
func (q *Queue) Enqueue(line dialogue.Line, profile dialogue.Profile) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrStopped
	}
	q.items = append(q.items, Item{Line: line, Profile: profile})
	q.observer.Depth(len(q.items))
	return nil
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Run processes one item per tick until ctx is done or the queue is closed.
func (q *Queue) Run(ctx context.Context) error {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return ErrRunning
	}
	if q.closed {
		q.mu.Unlock()
		return ErrStopped
	}
	q.running = true
	q.ticker = q.clock.NewTicker(q.interval)
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.ticker.Stop()
		q.running = false
		q.mu.Unlock()
	}()

	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return nil
		}
		tick := q.ticker.C()
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil
		case <-q.reset:
		case <-tick:
			q.Step(ctx)
		}
	}
}

// Restart stops the tick source, drops every queued and in-flight item and
// starts a fresh tick source.
func (q *Queue) Restart() {
	q.mu.Lock()
	if q.ticker != nil {
		q.ticker.Stop()
	}
	dropped := len(q.items)
	q.items = nil
	q.generation++
	if q.running {
		q.ticker = q.clock.NewTicker(q.interval)
	}
	q.observer.Depth(0)
	q.mu.Unlock()

	q.signalReset()
	slog.Default().Info("correction queue restarted", slog.Int("dropped", dropped))
}

// Close stops the queue. Queued items are dropped.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.generation++
	q.mu.Unlock()

	q.signalReset()
}

func (q *Queue) signalReset() {
	select {
	case q.reset <- struct{}{}:
	default:
	}
}

// Step takes the head item and processes it. It reports whether there was
// an item.
func (q *Queue) Step(ctx context.Context) bool {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return false
	}
	item := q.items[0]
	q.items[0] = Item{}
	q.items = q.items[1:]
	generation := q.generation
	q.observer.Depth(len(q.items))
	q.mu.Unlock()

	start := time.Now()
	outcome := q.process(ctx, item, generation)
	q.observer.Observe(outcome, time.Since(start))
	return true
}

func (q *Queue) process(ctx context.Context, item Item, generation uint64) Outcome {
	line := item.Line

	if q.handler.ShouldSkip(line, item.Profile) {
		return OutcomeSkipped
	}

	if item.RetryCount > q.maxRetries {
		slog.Default().Warn("giving up on a dialogue line",
			slog.String("id", line.ID),
			slog.Int("retryCount", item.RetryCount),
		)
		q.present(ctx, dialogue.Presentation{
			Status:  dialogue.StatusFailed,
			Text:    q.failureText,
			Line:    line,
			Profile: item.Profile,
		})
		return OutcomeExhausted
	}

	if item.RetryCount == 0 {
		q.present(ctx, dialogue.Presentation{Status: dialogue.StatusPending, Line: line, Profile: item.Profile})
	}

	presentation, err := q.handler.Process(ctx, line, item.Profile)
	if errors.Is(err, dialogue.ErrSkipped) {
		return OutcomeSkipped
	}
	if q.stale(generation) {
		return OutcomeDropped
	}
	if err != nil || (line.Text != "" && presentation.Text == "") {
		item.RetryCount++
		slog.Default().Info("dialogue line will be retried",
			slog.String("id", line.ID),
			slog.Int("retryCount", item.RetryCount),
			slog.Any("error", err),
		)
		q.requeue(item, generation)
		return OutcomeRetried
	}

	q.present(ctx, presentation)
	return OutcomeDone
}

func (q *Queue) stale(generation uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.generation != generation
}

// requeue puts an item back at the tail unless the queue was restarted.
func (q *Queue) requeue(item Item, generation uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.generation != generation || q.closed {
		return
	}
	q.items = append(q.items, item)
	q.observer.Depth(len(q.items))
}

func (q *Queue) present(ctx context.Context, p dialogue.Presentation) {
	if err := q.presenter.Present(ctx, p); err != nil {
		slog.Default().Warn("failed to present a dialogue line",
			slog.String("id", p.Line.ID),
			slog.String("status", string(p.Status)),
			slog.Any("error", err),
		)
	}
}
