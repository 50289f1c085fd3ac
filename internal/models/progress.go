package models

import "time"

const (
	BadgeKindImpulse = "impulse"
	BadgeKindGlobal  = "global"
)

// ProgressLedger is the on-device record of a user's progress. It is stored as a
// single blob and replaced wholesale on every save.
type ProgressLedger struct {
	TotalBlossoms         int              `json:"totalBlossoms" toml:"total_blossoms" yaml:"total_blossoms"`
	CurrentLevel          int              `json:"currentLevel" toml:"current_level" yaml:"current_level"`
	CompletedExercises    []ExerciseRecord `json:"completedExercises" toml:"completed_exercises" yaml:"completed_exercises"`
	ExerciseCategories    map[string]int   `json:"exerciseCategories" toml:"exercise_categories" yaml:"exercise_categories"`
	StreakCounter         int              `json:"streakCounter" toml:"streak_counter" yaml:"streak_counter"`
	StreakMultiplier      float64          `json:"streakMultiplier" toml:"streak_multiplier" yaml:"streak_multiplier"`
	LastStreakDay         string           `json:"lastStreakDay,omitempty" toml:"last_streak_day,omitempty" yaml:"last_streak_day,omitempty"` // "2006-01-02", local calendar.
	BadgesUnlocked        []string         `json:"badgesUnlocked" toml:"badges_unlocked" yaml:"badges_unlocked"`
	HubSequencesCompleted []string         `json:"hubSequencesCompleted" toml:"hub_sequences_completed" yaml:"hub_sequences_completed"`
	LastSyncedAt          *time.Time       `json:"lastSyncedAt" toml:"last_synced_at,omitempty" yaml:"last_synced_at,omitempty"`

	// Earned on this device and not yet added to the remote profile.
	UnsyncedBlossoms  int      `json:"unsyncedBlossoms,omitempty" toml:"unsynced_blossoms,omitempty" yaml:"unsynced_blossoms,omitempty"`
	UnsyncedBadges    []string `json:"unsyncedBadges,omitempty" toml:"unsynced_badges,omitempty" yaml:"unsynced_badges,omitempty"`
	UnsyncedSequences []string `json:"unsyncedSequences,omitempty" toml:"unsynced_sequences,omitempty" yaml:"unsynced_sequences,omitempty"`
}

// NewLedger returns the ledger of a user who never completed anything.
func NewLedger() ProgressLedger {
	return ProgressLedger{
		CurrentLevel:          1,
		CompletedExercises:    []ExerciseRecord{},
		ExerciseCategories:    map[string]int{},
		StreakMultiplier:      1.0,
		BadgesUnlocked:        []string{},
		HubSequencesCompleted: []string{},
	}
}

func (l *ProgressLedger) HasBadge(id string) bool {
	return contains(l.BadgesUnlocked, id)
}

func (l *ProgressLedger) HasHubSequence(hub string) bool {
	return contains(l.HubSequencesCompleted, hub)
}

// LastCompletion returns the most recent completion, if any.
func (l *ProgressLedger) LastCompletion() (ExerciseRecord, bool) {
	var last ExerciseRecord
	found := false
	for _, rec := range l.CompletedExercises {
		if !found || rec.CompletedAt.After(last.CompletedAt) {
			last = rec
			found = true
		}
	}
	return last, found
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// RemoteProfile mirrors the shared subset of the ledger held by the backend.
type RemoteProfile struct {
	UserID           string  `json:"id"`
	Blossoms         int     `json:"blossoms"`
	Streak           int     `json:"streak"`
	StreakMultiplier float64 `json:"streak_multiplier"`
	Level            int     `json:"level"`
	LastExerciseDate string  `json:"last_exercise_date,omitempty"`
}

type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
}
