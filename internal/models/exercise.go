package models

import "time"

// Default duration of a step when the catalog leaves it unset.
const DefaultStepSeconds = 2

type Step struct {
	ID                  string  `json:"id" toml:"id"`
	Text                string  `json:"text" toml:"text"`
	BaseDurationSeconds float64 `json:"base_duration_seconds" toml:"base_duration_seconds"`
}

// BaseSeconds returns the step's base duration, falling back to DefaultStepSeconds.
func (s Step) BaseSeconds() float64 {
	if s.BaseDurationSeconds <= 0 {
		return DefaultStepSeconds
	}
	return s.BaseDurationSeconds
}

type Exercise struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Credit string `json:"credit"`
	Steps  []Step `json:"steps"`
}

// RunSummary is what the player reports to its host when a run finishes.
type RunSummary struct {
	Completed       bool `json:"completed"`
	DurationSeconds int  `json:"duration_seconds"`
	StepsCompleted  int  `json:"steps_completed"`
}

// ExerciseRecord is one completed exercise. Created once, never mutated.
type ExerciseRecord struct {
	ID             string    `json:"id" toml:"id" yaml:"id"`
	HubName        string    `json:"hubName" toml:"hub_name" yaml:"hub_name"`
	ExerciseName   string    `json:"exerciseName" toml:"exercise_name" yaml:"exercise_name"`
	ExerciseIndex  int       `json:"exerciseIndex" toml:"exercise_index" yaml:"exercise_index"`
	Rating         int       `json:"rating" toml:"rating" yaml:"rating"`
	BlossomsEarned int       `json:"blossomsEarned" toml:"blossoms_earned" yaml:"blossoms_earned"`
	CompletedAt    time.Time `json:"completedAt" toml:"completed_at" yaml:"completed_at"`
}

// PlayerState is what the player remembers between runs.
type PlayerState struct {
	LastSpeed int    `toml:"last_speed"`
	LastHub   string `toml:"last_hub,omitempty"`
}
