package progress

import (
	"context"
	"testing"
	"time"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recAt(hub string, at time.Time) models.ExerciseRecord {
	return models.ExerciseRecord{ID: at.String() + hub, HubName: hub, Rating: 3, CompletedAt: at}
}

func badgeIDs(badges []models.Badge) []string {
	out := make([]string, 0, len(badges))
	for _, b := range badges {
		out = append(out, b.ID)
	}
	return out
}

func TestBadgeRules(t *testing.T) {
	t.Parallel()

	now := day1
	daysAgo := func(n int, hour int) time.Time {
		d := now.AddDate(0, 0, -n)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
	}
	repeat := func(hub string, n int) []models.ExerciseRecord {
		var out []models.ExerciseRecord
		for i := 0; i < n; i++ {
			out = append(out, recAt(hub, daysAgo(i*3+2, 14)))
		}
		return out
	}

	tests := []struct {
		name    string
		records []models.ExerciseRecord
		streak  int
		at      time.Time
		want    string
		earned  bool
	}{
		{name: "first blossom", records: repeat("return-calm", 1), want: "first-blossom", earned: true},
		{name: "weekly bloom", records: repeat("return-calm", 1), streak: 7, want: "weekly-bloom", earned: true},
		{name: "weekly bloom short", records: repeat("return-calm", 1), streak: 6, want: "weekly-bloom"},
		{name: "zen discipline", records: repeat("return-calm", 1), streak: 30, want: "zen-discipline", earned: true},
		{name: "mindful eater", records: repeat("eat-awareness", 10), want: "mindful-eater", earned: true},
		{name: "mindful eater short", records: repeat("eat-awareness", 9), want: "mindful-eater"},
		{name: "movement starter", records: repeat("move-body", 5), want: "movement-starter", earned: true},
		{name: "anger alchemist", records: repeat("return-calm", 8), want: "anger-alchemist", earned: true},
		{name: "still waters", records: repeat("steady-breath", 5), want: "still-waters", earned: true},
		{name: "smoke breaker", records: repeat("stop-smoking", 7), want: "smoke-breaker", earned: true},
		{
			name: "smoke breaker same day",
			records: []models.ExerciseRecord{
				recAt("stop-smoking", daysAgo(1, 9)), recAt("stop-smoking", daysAgo(1, 10)),
				recAt("stop-smoking", daysAgo(1, 11)), recAt("stop-smoking", daysAgo(1, 13)),
				recAt("stop-smoking", daysAgo(1, 14)), recAt("stop-smoking", daysAgo(1, 15)),
				recAt("stop-smoking", daysAgo(1, 16)),
			},
			want: "smoke-breaker",
		},
		{name: "digital monk", records: repeat("stop-doomscrolling", 3), want: "digital-monk", earned: true},
		{
			name: "friday mode",
			records: []models.ExerciseRecord{
				recAt("return-calm", now.Add(-23*time.Hour)), recAt("move-body", now.Add(-20*time.Hour)),
				recAt("return-calm", now.Add(-3*time.Hour)), recAt("eat-awareness", now.Add(-2*time.Hour)),
				recAt("return-calm", now),
			},
			want:   "friday-mode",
			earned: true,
		},
		{
			name: "friday mode outside window",
			records: []models.ExerciseRecord{
				recAt("return-calm", now.Add(-25*time.Hour)), recAt("move-body", now.Add(-20*time.Hour)),
				recAt("return-calm", now.Add(-3*time.Hour)), recAt("eat-awareness", now.Add(-2*time.Hour)),
				recAt("return-calm", now),
			},
			want: "friday-mode",
		},
		{
			name:    "morning calm",
			records: []models.ExerciseRecord{recAt("return-calm", daysAgo(2, 7)), recAt("return-calm", daysAgo(1, 11)), recAt("return-calm", daysAgo(0, 5))},
			want:    "morning-calm",
			earned:  true,
		},
		{
			name:    "morning calm with gap",
			records: []models.ExerciseRecord{recAt("return-calm", daysAgo(3, 7)), recAt("return-calm", daysAgo(1, 7)), recAt("return-calm", daysAgo(0, 7))},
			want:    "morning-calm",
		},
		{
			name:    "morning calm at noon",
			records: []models.ExerciseRecord{recAt("return-calm", daysAgo(2, 7)), recAt("return-calm", daysAgo(1, 12)), recAt("return-calm", daysAgo(0, 7))},
			want:    "morning-calm",
		},
		{
			name:    "night restore",
			records: []models.ExerciseRecord{recAt("return-calm", daysAgo(3, 21)), recAt("return-calm", daysAgo(2, 23)), recAt("return-calm", daysAgo(1, 20)), recAt("return-calm", daysAgo(0, 20))},
			at:      daysAgo(0, 23),
			want:    "night-restore",
			earned:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger := models.NewLedger()
			ledger.CompletedExercises = tt.records
			ledger.StreakCounter = tt.streak

			e := newEnv(t)
			e.store.ledger = &ledger
			if !tt.at.IsZero() {
				e.clock.set(tt.at)
			}

			awarded, err := e.svc.CheckAndAwardBadges(context.Background())
			require.NoError(t, err)
			if tt.earned {
				assert.Contains(t, badgeIDs(awarded), tt.want)
			} else {
				assert.NotContains(t, badgeIDs(awarded), tt.want)
			}
		})
	}
}

func TestBadgesAwardedOnce(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	e.record(t, "return-calm", 0)
	total := e.ledger(t).TotalBlossoms

	awarded, err := e.svc.CheckAndAwardBadges(ctx)
	require.NoError(t, err)
	assert.Empty(t, awarded)
	assert.Equal(t, total, e.ledger(t).TotalBlossoms)
}

func TestBadgeCatalog(t *testing.T) {
	t.Parallel()

	badges := Badges()
	assert.Len(t, badges, 12)

	seen := map[string]bool{}
	for _, b := range badges {
		assert.False(t, seen[b.ID], "duplicate %s", b.ID)
		seen[b.ID] = true
		assert.Contains(t, []string{models.BadgeKindImpulse, models.BadgeKindGlobal}, b.Kind)
	}

	b, ok := BadgeByID("digital-monk")
	require.True(t, ok)
	assert.Equal(t, models.BadgeKindImpulse, b.Kind)
	_, ok = BadgeByID("nope")
	assert.False(t, ok)
}
