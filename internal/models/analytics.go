package models

import "time"

const (
	EventExerciseStarted   = "exercise_started"
	EventSlowdownChanged   = "exercise_slowdown_changed"
	EventFastForward       = "exercise_fastforward"
	EventIntervalSkipped   = "interval_skipped"
	EventExerciseCompleted = "exercise_completed"
	EventExerciseAborted   = "exercise_aborted"
)

const (
	ActionSingleTap = "single_tap"
	ActionDoubleTap = "double_tap"
	ActionLongPress = "long_press"
)

type AnalyticsEvent struct {
	Name       string         `json:"event_name"`
	Hub        string         `json:"hub"`
	ExerciseID string         `json:"exercise_id"`
	StepIndex  int            `json:"step_index"`
	Timestamp  time.Time      `json:"timestamp"`
	Action     string         `json:"action,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}
