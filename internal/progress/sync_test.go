package progress

import (
	"context"
	"testing"
	"time"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncSkippedWithoutIdentity(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.record(t, "return-calm", 0)

	res, err := e.svc.SyncToRemote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncSkipped, res.Status)
	assert.Empty(t, e.remote.exercises)

	noRemote := NewService(e.store, nil, StaticIdentity("u1"), e.clock)
	res, err = noRemote.SyncToRemote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncSkipped, res.Status)

	res, err = noRemote.MergeFromRemote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncSkipped, res.Status)
}

func TestSyncResumesAfterPartialFailure(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		e.clock.set(day1.Add(time.Duration(i) * time.Hour))
		e.record(t, "return-calm", i)
	}
	recs := e.ledger(t).CompletedExercises

	e.identity.id = "u1"
	e.remote.failAfter = 1

	res, err := e.svc.SyncToRemote(ctx)
	require.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, res.Pushed)

	l := e.ledger(t)
	require.NotNil(t, l.LastSyncedAt)
	assert.Equal(t, recs[0].CompletedAt, *l.LastSyncedAt)
	assert.Empty(t, e.remote.profiles)

	e.remote.failAfter = -1
	res, err = e.svc.SyncToRemote(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncDone, res.Status)
	assert.Equal(t, 2, res.Pushed)

	l = e.ledger(t)
	require.NotNil(t, l.LastSyncedAt)
	assert.Equal(t, recs[2].CompletedAt, *l.LastSyncedAt)
	assert.Len(t, e.remote.exercises["u1"], 3)
	assert.Equal(t, l.TotalBlossoms, e.remote.profiles["u1"].Blossoms)

	// Nothing new to push.
	res, err = e.svc.SyncToRemote(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Pushed)
}

func TestSyncHoldsWatermarkOnSharedTimestamp(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	e.record(t, "return-calm", 0)
	e.record(t, "return-calm", 1)

	e.identity.id = "u1"
	e.remote.failAfter = 1

	_, err := e.svc.SyncToRemote(context.Background())
	require.Error(t, err)
	assert.Nil(t, e.ledger(t).LastSyncedAt)

	e.remote.failAfter = -1
	res, err := e.svc.SyncToRemote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pushed)
	assert.Len(t, e.remote.exercises["u1"], 2)
}

// seedPushed stores a ledger whose single record the remote already holds.
func (e *env) seedPushed() {
	at := day1
	l := models.NewLedger()
	l.TotalBlossoms = 40
	l.CurrentLevel = 1
	l.StreakCounter = 1
	l.LastStreakDay = "2026-03-02"
	l.CompletedExercises = []models.ExerciseRecord{
		{ID: "local", HubName: "return-calm", ExerciseIndex: 0, Rating: 4, BlossomsEarned: 20, CompletedAt: day1},
	}
	l.ExerciseCategories = map[string]int{"return-calm": 1}
	l.BadgesUnlocked = []string{"first-blossom"}
	l.LastSyncedAt = &at
	e.store.ledger = &l
}

func TestMergeReplacesSharedFields(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.seedPushed()

	e.identity.id = "u1"
	e.remote.profiles["u1"] = models.RemoteProfile{
		UserID:           "u1",
		Blossoms:         300,
		Streak:           4,
		StreakMultiplier: 1.5,
		Level:            4,
		LastExerciseDate: "2026-03-01",
	}
	e.remote.exercises["u1"] = []models.ExerciseRecord{
		{ID: "b", HubName: "move-body", ExerciseIndex: 1, Rating: 5, CompletedAt: day1.Add(-24 * time.Hour)},
		{ID: "a", HubName: "return-calm", ExerciseIndex: 0, Rating: 3, CompletedAt: day1.Add(-48 * time.Hour)},
		{ID: "c", HubName: "return-calm", ExerciseIndex: 2, Rating: 4, CompletedAt: day1.Add(-30 * time.Hour)},
	}
	e.remote.badges["u1"] = []string{"first-blossom", "weekly-bloom"}
	e.remote.sequences["u1"] = []string{"return-calm"}

	res, err := e.svc.MergeFromRemote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncDone, res.Status)
	assert.Equal(t, 3, res.Pulled)

	l := e.ledger(t)
	assert.Equal(t, 300, l.TotalBlossoms)
	assert.Equal(t, 4, l.CurrentLevel)
	assert.Equal(t, 4, l.StreakCounter)
	assert.Equal(t, 1.5, l.StreakMultiplier)
	assert.Equal(t, "2026-03-01", l.LastStreakDay)
	assert.Equal(t, map[string]int{"return-calm": 2, "move-body": 1}, l.ExerciseCategories)
	assert.Equal(t, []string{"first-blossom", "weekly-bloom"}, l.BadgesUnlocked)
	assert.Equal(t, []string{"return-calm"}, l.HubSequencesCompleted)

	ids := make([]string, 0, len(l.CompletedExercises))
	for _, rec := range l.CompletedExercises {
		ids = append(ids, rec.ID)
	}
	assert.Equal(t, []string{"a", "c", "b"}, ids)
	require.NotNil(t, l.LastSyncedAt)
	assert.Equal(t, day1.Add(-24*time.Hour), *l.LastSyncedAt)
}

func TestMergeCreatesMissingProfile(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.seedPushed()
	e.identity.id = "u1"

	res, err := e.svc.MergeFromRemote(context.Background())
	require.NoError(t, err)
	assert.True(t, res.ProfileCreated)

	profile := e.remote.profiles["u1"]
	assert.Equal(t, 40, profile.Blossoms)
	assert.Equal(t, 1, profile.Level)
	assert.Len(t, e.ledger(t).CompletedExercises, 1)
}

func TestMergeRemoteErrorLeavesLedger(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.seedPushed()
	e.identity.id = "u1"
	e.remote.down = true

	_, err := e.svc.MergeFromRemote(context.Background())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.Equal(t, 40, e.ledger(t).TotalBlossoms)
}

func TestMergeRefusesWhileRecordsPending(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.record(t, "return-calm", 0)

	e.identity.id = "u1"
	e.remote.profiles["u1"] = models.RemoteProfile{UserID: "u1", Blossoms: 100, Streak: 2, Level: 2}

	_, err := e.svc.MergeFromRemote(context.Background())
	require.ErrorIs(t, err, ErrUnsyncedProgress)
	assert.NotErrorIs(t, err, ErrRemoteUnavailable)

	l := e.ledger(t)
	assert.Len(t, l.CompletedExercises, 1)
	assert.Equal(t, 40, l.TotalBlossoms)
	assert.Equal(t, 100, e.remote.profiles["u1"].Blossoms)

	// Once pushed, the merge goes through and keeps the record.
	_, err = e.svc.SyncToRemote(context.Background())
	require.NoError(t, err)
	res, err := e.svc.MergeFromRemote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pulled)
	assert.Len(t, e.ledger(t).CompletedExercises, 1)
}

func TestMergeRefusesWhileAwardsPending(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.seedPushed()
	e.store.ledger.TotalBlossoms += BadgeBlossoms
	e.store.ledger.UnsyncedBlossoms = BadgeBlossoms
	e.store.ledger.UnsyncedBadges = []string{"weekly-bloom"}
	e.store.ledger.BadgesUnlocked = append(e.store.ledger.BadgesUnlocked, "weekly-bloom")

	e.identity.id = "u1"
	e.remote.profiles["u1"] = models.RemoteProfile{UserID: "u1", Blossoms: 40, Level: 1}

	_, err := e.svc.MergeFromRemote(context.Background())
	require.ErrorIs(t, err, ErrUnsyncedProgress)
	assert.Equal(t, 60, e.ledger(t).TotalBlossoms)
}

func TestSyncAddsOfflineProgressToExistingProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		remoteBadges []string
		wantBlossoms int
	}{
		{name: "badge already paid remotely", remoteBadges: []string{"first-blossom"}, wantBlossoms: 520},
		{name: "badge new to the profile", wantBlossoms: 540},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newEnv(t)
			e.remote.profiles["u1"] = models.RemoteProfile{
				UserID:           "u1",
				Blossoms:         500,
				Streak:           9,
				StreakMultiplier: 1,
				Level:            5,
				LastExerciseDate: "2026-03-01",
			}
			e.remote.badges["u1"] = tt.remoteBadges

			// Completed on a fresh device before signing in.
			e.record(t, "return-calm", 0)
			require.Equal(t, 40, e.ledger(t).TotalBlossoms)

			e.identity.id = "u1"
			res, err := e.svc.Reconcile(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, res.Pushed)

			profile := e.remote.profiles["u1"]
			assert.Equal(t, tt.wantBlossoms, profile.Blossoms)
			assert.Equal(t, 10, profile.Streak)
			assert.Equal(t, "2026-03-02", profile.LastExerciseDate)
			assert.Equal(t, 5, profile.Level)
			assert.Contains(t, e.remote.badges["u1"], "first-blossom")

			l := e.ledger(t)
			assert.Equal(t, tt.wantBlossoms, l.TotalBlossoms)
			assert.Equal(t, 10, l.StreakCounter)
			assert.Len(t, l.CompletedExercises, 1)
			assert.Zero(t, l.UnsyncedBlossoms)
			assert.Empty(t, l.UnsyncedBadges)
		})
	}
}

func TestSyncAddsOnlyNewBlossoms(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.identity.id = "u1"

	e.record(t, "return-calm", 0)
	require.Equal(t, 40, e.remote.profiles["u1"].Blossoms)

	// Another device adds to the profile in between.
	p := e.remote.profiles["u1"]
	p.Blossoms = 100
	e.remote.profiles["u1"] = p

	e.clock.set(day1.Add(time.Hour))
	e.record(t, "return-calm", 1)

	assert.Equal(t, 105, e.remote.profiles["u1"].Blossoms)
	assert.Equal(t, 2, e.remote.profiles["u1"].Level)
	assert.Zero(t, e.ledger(t).UnsyncedBlossoms)

	// A sync with nothing new leaves the profile alone.
	res, err := e.svc.SyncToRemote(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Pushed)
	assert.Equal(t, 105, e.remote.profiles["u1"].Blossoms)
}

func TestSyncDoesNotRepaySequenceHeldRemotely(t *testing.T) {
	t.Parallel()
	e := newEnv(t, WithHubSize(2))
	e.remote.profiles["u1"] = models.RemoteProfile{UserID: "u1", Blossoms: 200, Streak: 1, Level: 3, LastExerciseDate: "2026-03-02"}
	e.remote.sequences["u1"] = []string{"return-calm"}
	e.remote.badges["u1"] = []string{"first-blossom"}

	e.record(t, "return-calm", 0)
	e.clock.set(day1.Add(time.Hour))
	award := e.record(t, "return-calm", 1)
	require.Equal(t, SequenceBlossoms, award.Sequence)

	e.identity.id = "u1"
	_, err := e.svc.SyncToRemote(context.Background())
	require.NoError(t, err)

	// 20 + 5 for the exercises; badge and sequence were already paid.
	assert.Equal(t, 225, e.remote.profiles["u1"].Blossoms)
	assert.Equal(t, 1, e.remote.profiles["u1"].Streak)
	assert.Equal(t, []string{"return-calm"}, e.remote.sequences["u1"])
}

func TestCombineStreak(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remote     models.RemoteProfile
		local      models.ProgressLedger
		wantStreak int
		wantDay    string
	}{
		{
			name:       "no local streak",
			remote:     models.RemoteProfile{Streak: 4, LastExerciseDate: "2026-03-01"},
			wantStreak: 4, wantDay: "2026-03-01",
		},
		{
			name:       "remote is newer",
			remote:     models.RemoteProfile{Streak: 4, LastExerciseDate: "2026-03-05"},
			local:      models.ProgressLedger{StreakCounter: 2, LastStreakDay: "2026-03-02"},
			wantStreak: 4, wantDay: "2026-03-05",
		},
		{
			name:       "same day",
			remote:     models.RemoteProfile{Streak: 4, LastExerciseDate: "2026-03-02"},
			local:      models.ProgressLedger{StreakCounter: 1, LastStreakDay: "2026-03-02"},
			wantStreak: 4, wantDay: "2026-03-02",
		},
		{
			name:       "local run continues remote",
			remote:     models.RemoteProfile{Streak: 4, LastExerciseDate: "2026-03-01"},
			local:      models.ProgressLedger{StreakCounter: 3, LastStreakDay: "2026-03-04"},
			wantStreak: 7, wantDay: "2026-03-04",
		},
		{
			name:       "local run overlaps remote",
			remote:     models.RemoteProfile{Streak: 4, LastExerciseDate: "2026-03-03"},
			local:      models.ProgressLedger{StreakCounter: 3, LastStreakDay: "2026-03-04"},
			wantStreak: 5, wantDay: "2026-03-04",
		},
		{
			name:       "gap breaks the run",
			remote:     models.RemoteProfile{Streak: 9, LastExerciseDate: "2026-02-20"},
			local:      models.ProgressLedger{StreakCounter: 2, LastStreakDay: "2026-03-04"},
			wantStreak: 2, wantDay: "2026-03-04",
		},
		{
			name:       "empty remote",
			local:      models.ProgressLedger{StreakCounter: 2, LastStreakDay: "2026-03-04"},
			wantStreak: 2, wantDay: "2026-03-04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			streak, day := combineStreak(tt.remote, &tt.local)
			assert.Equal(t, tt.wantStreak, streak)
			assert.Equal(t, tt.wantDay, day)
		})
	}
}

func TestReconcilePushesThenMerges(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.record(t, "return-calm", 0)
	e.identity.id = "u1"

	res, err := e.svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pushed)
	assert.Equal(t, 1, res.Pulled)

	l := e.ledger(t)
	assert.Equal(t, 40, l.TotalBlossoms)
	assert.Len(t, l.CompletedExercises, 1)
	assert.Equal(t, []string{"first-blossom"}, l.BadgesUnlocked)
}

func TestReconcileSkipsMergeWhenPushFails(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.record(t, "return-calm", 0)

	e.identity.id = "u1"
	e.remote.profiles["u1"] = models.RemoteProfile{UserID: "u1", Blossoms: 999}
	e.remote.failAfter = 0

	_, err := e.svc.Reconcile(context.Background())
	require.ErrorIs(t, err, ErrRemoteUnavailable)

	l := e.ledger(t)
	assert.Equal(t, 40, l.TotalBlossoms)
	assert.Len(t, l.CompletedExercises, 1)
}

func TestReconcileOnFreshDeviceAdoptsRemote(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.identity.id = "u1"
	e.remote.profiles["u1"] = models.RemoteProfile{UserID: "u1", Blossoms: 130, Streak: 2, StreakMultiplier: 1, Level: 3}
	e.remote.exercises["u1"] = []models.ExerciseRecord{
		{ID: "a", HubName: "return-calm", Rating: 4, CompletedAt: day1.Add(-time.Hour)},
	}

	res, err := e.svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Pushed)
	assert.Equal(t, 1, res.Pulled)

	assert.Equal(t, 130, e.remote.profiles["u1"].Blossoms)
	l := e.ledger(t)
	assert.Equal(t, 130, l.TotalBlossoms)
	assert.Equal(t, 3, l.CurrentLevel)
}
