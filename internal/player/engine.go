// Package player runs one pass through a sequence of timed steps.
//
// The engine is a small state machine driven by a single one-second tick timer:
//
//	Running(i) --expiry/tap--> IntervalGap(i+1) --expiry/tap--> Running(i+1)
//	Running(last) --expiry/tap--> Completed
//	Running(i) --double tap--> Completed
//	any non-terminal --close--> Aborted
//
// Every transition stops the previous timer before arming a new one.
package player

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/analytics"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
)

const (
	IntervalSeconds        = 5
	AcceleratedStepSeconds = 1
	DoubleTapWindow        = 300 * time.Millisecond
	LongPressThreshold     = 500 * time.Millisecond

	tick = time.Second
)

type Mode int

const (
	ModeIdle Mode = iota
	ModeRunning
	ModeIntervalGap
	ModeCompleted
	ModeAborted
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeRunning:
		return "running"
	case ModeIntervalGap:
		return "interval"
	case ModeCompleted:
		return "completed"
	case ModeAborted:
		return "aborted"
	}
	return "unknown"
}

func (m Mode) Terminal() bool {
	return m == ModeCompleted || m == ModeAborted
}

// Speed is the slowdown multiplier applied to step durations.
type Speed int

const (
	Speed1x Speed = 1
	Speed2x Speed = 2
	Speed3x Speed = 3
)

// Next cycles 1x -> 2x -> 3x -> 1x.
func (s Speed) Next() Speed {
	if s >= Speed3x || s < Speed1x {
		return Speed1x
	}
	return s + 1
}

func (s Speed) Valid() bool {
	return s >= Speed1x && s <= Speed3x
}

func (s Speed) String() string {
	switch s {
	case Speed2x:
		return "2x"
	case Speed3x:
		return "3x"
	}
	return "1x"
}

// Snapshot is a read-only view of a run.
type Snapshot struct {
	Hub         string
	Mode        Mode
	StepIndex   int
	Step        models.Step
	Next        *models.Step
	TotalSteps  int
	Remaining   int
	Speed       Speed
	Accelerated bool
	Elapsed     time.Duration
}

type Option func(*Engine)

func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

func WithEmitter(em analytics.Emitter) Option {
	return func(e *Engine) { e.emitter = em }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithInitialSpeed(s Speed) Option {
	return func(e *Engine) {
		if s.Valid() {
			e.speed = s
		}
	}
}

func OnComplete(f func(models.RunSummary)) Option {
	return func(e *Engine) { e.onComplete = f }
}

func OnClose(f func()) Option {
	return func(e *Engine) { e.onClose = f }
}

// OnChange is called after every state change, including countdown ticks.
func OnChange(f func(Snapshot)) Option {
	return func(e *Engine) { e.onChange = f }
}

type Engine struct {
	mu sync.Mutex

	hub     string
	steps   []models.Step
	sched   Scheduler
	emitter analytics.Emitter
	logger  *slog.Logger

	onComplete func(models.RunSummary)
	onClose    func()
	onChange   func(Snapshot)

	mode        Mode
	index       int
	speed       Speed
	accelerated bool
	remaining   int
	startedAt   time.Time

	timer Timer
	gen   uint64
}

func New(hub string, steps []models.Step, opts ...Option) *Engine {
	e := &Engine{
		hub:   hub,
		steps: steps,
		speed: Speed1x,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sched == nil {
		e.sched = RealScheduler{}
	}
	if e.emitter == nil {
		e.emitter = analytics.Nop{}
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e
}

// effects are collected under the lock and delivered after it is released, so
// callbacks may call back into the engine.
type effects struct {
	events  []models.AnalyticsEvent
	changed bool
	summary *models.RunSummary
	closed  bool
}

func (e *Engine) Start() {
	e.mu.Lock()
	if e.mode != ModeIdle {
		e.mu.Unlock()
		return
	}

	var fx effects
	e.startedAt = e.sched.Now()
	if len(e.steps) == 0 {
		// Nothing to play: show the terminal view, pay nothing.
		e.mode = ModeCompleted
		fx.changed = true
		fx.summary = &models.RunSummary{Completed: false}
		e.logger.Debug("empty exercise", "hub", e.hub)
		e.mu.Unlock()
		e.flush(fx)
		return
	}

	fx.events = append(fx.events, e.eventLocked(models.EventExerciseStarted, "", nil))
	e.mode = ModeRunning
	e.index = 0
	e.armStepLocked()
	fx.changed = true
	e.mu.Unlock()
	e.flush(fx)
}

// CycleSpeed moves to the next slowdown level. A running step restarts from its
// full, rescaled duration.
func (e *Engine) CycleSpeed() Speed {
	e.mu.Lock()
	if e.mode.Terminal() {
		s := e.speed
		e.mu.Unlock()
		return s
	}

	var fx effects
	old := e.speed
	e.speed = e.speed.Next()
	if e.mode != ModeIdle {
		fx.events = append(fx.events, e.eventLocked(models.EventSlowdownChanged, "", map[string]any{
			"old_speed": old.String(),
			"new_speed": e.speed.String(),
		}))
	}
	if e.mode == ModeRunning {
		e.armStepLocked()
	}
	fx.changed = true
	s := e.speed
	e.mu.Unlock()
	e.flush(fx)
	return s
}

// FastForward is the single tap: end the current step, or skip the interval gap.
func (e *Engine) FastForward() {
	e.mu.Lock()
	if e.mode != ModeRunning && e.mode != ModeIntervalGap {
		e.mu.Unlock()
		return
	}

	var fx effects
	fx.events = append(fx.events, e.eventLocked(models.EventFastForward, models.ActionSingleTap, nil))
	switch e.mode {
	case ModeRunning:
		e.endStepLocked(&fx)
	case ModeIntervalGap:
		fx.events = append(fx.events, e.eventLocked(models.EventIntervalSkipped, "", nil))
		e.index++
		e.mode = ModeRunning
		e.armStepLocked()
	}
	fx.changed = true
	e.mu.Unlock()
	e.flush(fx)
}

// FastForwardToEnd is the double tap: complete the run right away.
func (e *Engine) FastForwardToEnd() {
	e.mu.Lock()
	if e.mode != ModeRunning && e.mode != ModeIntervalGap {
		e.mu.Unlock()
		return
	}

	var fx effects
	fx.events = append(fx.events, e.eventLocked(models.EventFastForward, models.ActionDoubleTap, nil))
	e.completeLocked(&fx, e.index+1)
	e.mu.Unlock()
	e.flush(fx)
}

// Accelerate is the long press: every step from now on lasts one second.
func (e *Engine) Accelerate() {
	e.mu.Lock()
	if e.mode != ModeRunning && e.mode != ModeIntervalGap {
		e.mu.Unlock()
		return
	}

	var fx effects
	fx.events = append(fx.events, e.eventLocked(models.EventFastForward, models.ActionLongPress, nil))
	e.accelerated = true
	if e.mode == ModeRunning {
		e.armStepLocked()
	}
	fx.changed = true
	e.mu.Unlock()
	e.flush(fx)
}

// Close aborts the run. Navigation is up to the host.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.mode.Terminal() {
		e.mu.Unlock()
		return
	}

	var fx effects
	e.stopTimerLocked()
	if e.mode != ModeIdle {
		fx.events = append(fx.events, e.eventLocked(models.EventExerciseAborted, "", nil))
	}
	e.mode = ModeAborted
	fx.changed = true
	fx.closed = true
	e.mu.Unlock()
	e.flush(fx)
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		Hub:         e.hub,
		Mode:        e.mode,
		StepIndex:   e.index,
		TotalSteps:  len(e.steps),
		Remaining:   e.remaining,
		Speed:       e.speed,
		Accelerated: e.accelerated,
	}
	if e.index < len(e.steps) {
		snap.Step = e.steps[e.index]
	}
	if e.index+1 < len(e.steps) {
		next := e.steps[e.index+1]
		snap.Next = &next
	}
	if !e.startedAt.IsZero() {
		snap.Elapsed = e.sched.Now().Sub(e.startedAt)
	}
	return snap
}

func (e *Engine) stepSecondsLocked(i int) int {
	if e.accelerated {
		return AcceleratedStepSeconds
	}
	return int(math.Ceil(e.steps[i].BaseSeconds() * float64(e.speed)))
}

func (e *Engine) armStepLocked() {
	e.remaining = e.stepSecondsLocked(e.index)
	e.armLocked()
}

func (e *Engine) armLocked() {
	e.stopTimerLocked()
	e.gen++
	gen := e.gen
	e.timer = e.sched.AfterFunc(tick, func() { e.onTick(gen) })
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	// Invalidate a tick that already fired and is waiting on the lock.
	e.gen++
}

func (e *Engine) onTick(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || (e.mode != ModeRunning && e.mode != ModeIntervalGap) {
		e.mu.Unlock()
		return
	}
	e.timer = nil

	var fx effects
	e.remaining--
	if e.remaining > 0 {
		e.armLocked()
	} else {
		switch e.mode {
		case ModeRunning:
			e.endStepLocked(&fx)
		case ModeIntervalGap:
			e.index++
			e.mode = ModeRunning
			e.armStepLocked()
		}
	}
	fx.changed = true
	e.mu.Unlock()
	e.flush(fx)
}

func (e *Engine) endStepLocked(fx *effects) {
	if e.index+1 < len(e.steps) {
		e.mode = ModeIntervalGap
		e.remaining = IntervalSeconds
		e.armLocked()
		return
	}
	e.completeLocked(fx, len(e.steps))
}

func (e *Engine) completeLocked(fx *effects, stepsCompleted int) {
	e.stopTimerLocked()
	e.mode = ModeCompleted
	e.remaining = 0

	duration := int(e.sched.Now().Sub(e.startedAt) / time.Second)
	fx.events = append(fx.events, e.eventLocked(models.EventExerciseCompleted, "", map[string]any{
		"duration_seconds": duration,
	}))
	fx.summary = &models.RunSummary{
		Completed:       true,
		DurationSeconds: duration,
		StepsCompleted:  stepsCompleted,
	}
	fx.changed = true
}

func (e *Engine) eventLocked(name, action string, extra map[string]any) models.AnalyticsEvent {
	ev := models.AnalyticsEvent{
		Name:      name,
		Hub:       e.hub,
		StepIndex: e.index,
		Timestamp: e.sched.Now(),
		Action:    action,
		Extra:     extra,
	}
	if e.index < len(e.steps) {
		ev.ExerciseID = e.steps[e.index].ID
	}
	return ev
}

func (e *Engine) flush(fx effects) {
	for _, ev := range fx.events {
		e.emitter.Emit(ev)
	}
	if fx.changed && e.onChange != nil {
		e.onChange(e.Snapshot())
	}
	if fx.summary != nil {
		e.logger.Info("exercise finished",
			"hub", e.hub,
			"completed", fx.summary.Completed,
			"steps", fx.summary.StepsCompleted,
			"duration_s", fx.summary.DurationSeconds,
		)
		if e.onComplete != nil {
			e.onComplete(*fx.summary)
		}
	}
	if fx.closed {
		e.logger.Info("exercise aborted", "hub", e.hub)
		if e.onClose != nil {
			e.onClose()
		}
	}
}
