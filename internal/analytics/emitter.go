// Package analytics delivers player events without ever blocking the caller.
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
)

type Emitter interface {
	Emit(event models.AnalyticsEvent)
}

// Sink receives events on the emitter's delivery goroutine.
type Sink interface {
	Deliver(ctx context.Context, event models.AnalyticsEvent) error
}

const DefaultBuffer = 64

// AsyncEmitter queues events on a buffered channel drained by a single goroutine.
// When the buffer is full the event is dropped and counted.
type AsyncEmitter struct {
	events  chan models.AnalyticsEvent
	quit    chan struct{}
	sink    Sink
	logger  *slog.Logger
	dropped atomic.Int64
	once    sync.Once
	cancel  context.CancelFunc
}

func NewAsyncEmitter(sink Sink, buffer int, logger *slog.Logger) *AsyncEmitter {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &AsyncEmitter{
		events: make(chan models.AnalyticsEvent, buffer),
		quit:   make(chan struct{}),
		sink:   sink,
		logger: logger,
		cancel: cancel,
	}
	go a.run(ctx)
	return a
}

func (a *AsyncEmitter) Emit(event models.AnalyticsEvent) {
	select {
	case <-a.quit:
		return
	default:
	}

	select {
	case a.events <- event:
	default:
		a.dropped.Add(1)
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (a *AsyncEmitter) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops delivery. Events still queued are abandoned.
func (a *AsyncEmitter) Close() {
	a.once.Do(func() {
		close(a.quit)
		a.cancel()
	})
}

func (a *AsyncEmitter) run(ctx context.Context) {
	for {
		select {
		case <-a.quit:
			return
		case ev := <-a.events:
			if err := a.sink.Deliver(ctx, ev); err != nil {
				a.logger.Warn("analytics delivery failed", "event", ev.Name, "err", err)
			}
		}
	}
}

// LogSink writes every event as a structured log record.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Deliver(ctx context.Context, ev models.AnalyticsEvent) error {
	attrs := []any{
		"hub", ev.Hub,
		"exercise_id", ev.ExerciseID,
		"step_index", ev.StepIndex,
		"timestamp", ev.Timestamp,
	}
	if ev.Action != "" {
		attrs = append(attrs, "action", ev.Action)
	}
	for k, v := range ev.Extra {
		attrs = append(attrs, k, v)
	}
	s.Logger.InfoContext(ctx, "[analytics] "+ev.Name, attrs...)
	return nil
}

type Nop struct{}

func (Nop) Emit(models.AnalyticsEvent) {}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []models.AnalyticsEvent
}

func (r *Recorder) Emit(ev models.AnalyticsEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *Recorder) Events() []models.AnalyticsEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AnalyticsEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Names() []string {
	events := r.Events()
	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	return names
}
