package progress

import (
	"time"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/utils"
)

// badgeRule decides whether a ledger has earned a badge at now.
type badgeRule struct {
	badge  models.Badge
	earned func(l *models.ProgressLedger, now time.Time, loc *time.Location) bool
}

var badgeRules = []badgeRule{
	{
		badge: models.Badge{ID: "first-blossom", Name: "First Blossom", Description: "First completed exercise", Kind: models.BadgeKindGlobal},
		earned: func(l *models.ProgressLedger, _ time.Time, _ *time.Location) bool {
			return len(l.CompletedExercises) >= 1
		},
	},
	{
		badge: models.Badge{ID: "weekly-bloom", Name: "Weekly Bloom", Description: "7-day streak", Kind: models.BadgeKindGlobal},
		earned: func(l *models.ProgressLedger, _ time.Time, _ *time.Location) bool {
			return l.StreakCounter >= 7
		},
	},
	{
		badge: models.Badge{ID: "zen-discipline", Name: "Zen Discipline", Description: "30-day streak", Kind: models.BadgeKindGlobal},
		earned: func(l *models.ProgressLedger, _ time.Time, _ *time.Location) bool {
			return l.StreakCounter >= 30
		},
	},
	{
		badge: models.Badge{ID: "friday-mode", Name: "Friday Mode", Description: "Complete 5 exercises within 24 hours", Kind: models.BadgeKindGlobal},
		earned: func(l *models.ProgressLedger, now time.Time, _ *time.Location) bool {
			return completionsSince(l, now.Add(-24*time.Hour)) >= 5
		},
	},
	{
		badge: models.Badge{ID: "morning-calm", Name: "Morning Calm", Description: "Complete 3 mornings in a row", Kind: models.BadgeKindGlobal},
		earned: func(l *models.ProgressLedger, now time.Time, loc *time.Location) bool {
			return consecutiveDaysInWindow(l, now, loc, 5, 12) >= 3
		},
	},
	{
		badge: models.Badge{ID: "night-restore", Name: "Night Restore", Description: "Complete 3 nights in a row", Kind: models.BadgeKindGlobal},
		earned: func(l *models.ProgressLedger, now time.Time, loc *time.Location) bool {
			return consecutiveDaysInWindow(l, now, loc, 20, 24) >= 3
		},
	},
	{
		badge: models.Badge{ID: "smoke-breaker", Name: "Smoke Breaker", Description: `7 days of "Stop Smoking" exercises`, Kind: models.BadgeKindImpulse},
		earned: func(l *models.ProgressLedger, _ time.Time, loc *time.Location) bool {
			return distinctDays(l, "stop-smoking", loc) >= 7
		},
	},
	{
		badge: models.Badge{ID: "mindful-eater", Name: "Mindful Eater", Description: "10 mindful eating exercises", Kind: models.BadgeKindImpulse},
		earned: func(l *models.ProgressLedger, _ time.Time, _ *time.Location) bool {
			return hubCount(l, "eat-awareness") >= 10
		},
	},
	{
		badge: models.Badge{ID: "movement-starter", Name: "Movement Starter", Description: `5 "Move Your Body" sessions`, Kind: models.BadgeKindImpulse},
		earned: func(l *models.ProgressLedger, _ time.Time, _ *time.Location) bool {
			return hubCount(l, "move-body") >= 5
		},
	},
	{
		badge: models.Badge{ID: "anger-alchemist", Name: "Anger Alchemist", Description: "8 calming sessions", Kind: models.BadgeKindImpulse},
		earned: func(l *models.ProgressLedger, _ time.Time, _ *time.Location) bool {
			return hubCount(l, "return-calm") >= 8
		},
	},
	{
		badge: models.Badge{ID: "still-waters", Name: "Still Waters", Description: "5 panic recoveries", Kind: models.BadgeKindImpulse},
		earned: func(l *models.ProgressLedger, _ time.Time, _ *time.Location) bool {
			return hubCount(l, "steady-breath") >= 5
		},
	},
	{
		badge: models.Badge{ID: "digital-monk", Name: "Digital Monk", Description: "3 days of mindful unplugging", Kind: models.BadgeKindImpulse},
		earned: func(l *models.ProgressLedger, _ time.Time, loc *time.Location) bool {
			return distinctDays(l, "stop-doomscrolling", loc) >= 3
		},
	},
}

// Badges lists every badge that can be earned.
func Badges() []models.Badge {
	out := make([]models.Badge, 0, len(badgeRules))
	for _, r := range badgeRules {
		out = append(out, r.badge)
	}
	return out
}

// BadgeByID looks a badge up in the catalog.
func BadgeByID(id string) (models.Badge, bool) {
	for _, r := range badgeRules {
		if r.badge.ID == id {
			return r.badge, true
		}
	}
	return models.Badge{}, false
}

func hubCount(l *models.ProgressLedger, hub string) int {
	n := 0
	for _, rec := range l.CompletedExercises {
		if rec.HubName == hub {
			n++
		}
	}
	return n
}

func distinctDays(l *models.ProgressLedger, hub string, loc *time.Location) int {
	days := map[string]struct{}{}
	for _, rec := range l.CompletedExercises {
		if rec.HubName == hub {
			days[utils.Day(rec.CompletedAt, loc)] = struct{}{}
		}
	}
	return len(days)
}

func completionsSince(l *models.ProgressLedger, since time.Time) int {
	n := 0
	for _, rec := range l.CompletedExercises {
		if rec.CompletedAt.After(since) {
			n++
		}
	}
	return n
}

// consecutiveDaysInWindow counts the run of days ending today that each have a
// completion whose local hour is in [fromHour, toHour).
func consecutiveDaysInWindow(l *models.ProgressLedger, now time.Time, loc *time.Location, fromHour, toHour int) int {
	days := map[string]struct{}{}
	for _, rec := range l.CompletedExercises {
		h := rec.CompletedAt.In(loc).Hour()
		if h >= fromHour && h < toHour {
			days[utils.Day(rec.CompletedAt, loc)] = struct{}{}
		}
	}

	n := 0
	for day := utils.Day(now, loc); ; day = utils.PrevDay(day) {
		if _, ok := days[day]; !ok {
			return n
		}
		n++
	}
}
