// Package progress keeps the local progress ledger and reconciles it with the
// remote profile store. The local ledger is the source of truth until a sync
// succeeds; after that the remote wins on merge.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/catalog"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/utils"
	"github.com/google/uuid"
)

const (
	BaseBlossoms       = 5
	FirstOfDayBlossoms = 15
	SequenceBlossoms   = 10
	BadgeBlossoms      = 20
)

var (
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	ErrUnsyncedProgress  = errors.New("local progress not pushed yet")
)

// Award breaks down the blossoms paid for one completion.
type Award struct {
	Record     models.ExerciseRecord
	Base       int
	FirstOfDay int
	Sequence   int
	Badges     []models.Badge
	Streak     int
	Level      int
	Sync       SyncResult
}

// Exercise is what the completion itself earned: base plus first-of-day.
func (a Award) Exercise() int {
	return a.Base + a.FirstOfDay
}

func (a Award) Total() int {
	return a.Base + a.FirstOfDay + a.Sequence + len(a.Badges)*BadgeBlossoms
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithLocation sets the calendar used for day boundaries. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithHubSize overrides the number of exercises that make a complete hub.
func WithHubSize(n int) Option {
	return func(s *Service) { s.hubSize = n }
}

type Service struct {
	mu sync.Mutex

	store    LedgerStore
	remote   RemoteProfileGateway
	identity IdentityProvider
	clock    Clock
	logger   *slog.Logger
	loc      *time.Location
	hubSize  int
}

// NewService wires the service. remote and identity may be nil, which makes every
// sync a skip.
func NewService(store LedgerStore, remote RemoteProfileGateway, identity IdentityProvider, clock Clock, opts ...Option) *Service {
	if clock == nil {
		clock = SystemClock{}
	}

	s := &Service{
		store:    store,
		remote:   remote,
		identity: identity,
		clock:    clock,
		loc:      time.Local,
		hubSize:  catalog.HubSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	return s
}

// Ledger returns the current local ledger.
func (s *Service) Ledger(ctx context.Context) (models.ProgressLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Clear wipes the local ledger, as on logout. The remote is untouched.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	return nil
}

// RecordCompletion pays for one completed exercise and persists it locally. The
// remote push afterwards is best effort: its failure is logged, never returned.
func (s *Service) RecordCompletion(ctx context.Context, hub, exerciseName string, exerciseIndex, rating int) (Award, error) {
	if rating < 1 || rating > 5 {
		return Award{}, fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.load(ctx)
	if err != nil {
		return Award{}, err
	}

	now := s.clock.Now()
	today := utils.Day(now, s.loc)

	award := Award{Base: BaseBlossoms}
	if !s.completedOn(&ledger, today) {
		award.FirstOfDay = FirstOfDayBlossoms
	}

	// The streak looks at prior completions only.
	award.Streak = s.applyStreak(&ledger, today)

	rec := models.ExerciseRecord{
		ID:             uuid.New().String(),
		HubName:        hub,
		ExerciseName:   exerciseName,
		ExerciseIndex:  exerciseIndex,
		Rating:         rating,
		BlossomsEarned: award.Exercise(),
		CompletedAt:    now,
	}
	ledger.CompletedExercises = append(ledger.CompletedExercises, rec)
	ledger.ExerciseCategories[hub]++
	ledger.TotalBlossoms += award.Exercise()
	ledger.UnsyncedBlossoms += award.Exercise()
	award.Record = rec

	if _, paid := s.applySequence(&ledger, hub); paid {
		award.Sequence = SequenceBlossoms
	}
	award.Badges = s.applyBadges(&ledger, now)

	ledger.CurrentLevel = catalog.LevelFor(ledger.TotalBlossoms)
	award.Level = ledger.CurrentLevel

	if err := s.save(ctx, ledger); err != nil {
		return Award{}, err
	}

	s.logger.Info("exercise recorded",
		"hub", hub,
		"index", exerciseIndex,
		"blossoms", award.Total(),
		"streak", award.Streak,
	)

	res, err := s.syncLocked(ctx)
	if err != nil {
		s.logger.Warn("sync deferred", "err", err)
	}
	award.Sync = res
	return award, nil
}

// CheckHubSequenceComplete reports whether every exercise of hub has been
// completed, paying the sequence bonus the first time it becomes true.
func (s *Service) CheckHubSequenceComplete(ctx context.Context, hub string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	complete, paid := s.applySequence(&ledger, hub)
	if paid {
		ledger.CurrentLevel = catalog.LevelFor(ledger.TotalBlossoms)
		if err := s.save(ctx, ledger); err != nil {
			return complete, err
		}
	}
	return complete, nil
}

// UpdateStreak reports the streak as of today without recording anything. A
// streak whose last completion is older than yesterday is reset to 1; only a
// completion advances it.
func (s *Service) UpdateStreak(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	today := utils.Day(s.clock.Now(), s.loc)
	last := s.lastStreakDay(&ledger)
	if last == "" {
		return 1, nil
	}
	if last == today || last == utils.PrevDay(today) {
		return max(ledger.StreakCounter, 1), nil
	}

	if ledger.StreakCounter != 1 {
		ledger.StreakCounter = 1
		if err := s.save(ctx, ledger); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

// CheckAndAwardBadges awards every badge whose rule now holds and that was not
// awarded before.
func (s *Service) CheckAndAwardBadges(ctx context.Context) ([]models.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	awarded := s.applyBadges(&ledger, s.clock.Now())
	if len(awarded) == 0 {
		return nil, nil
	}
	ledger.CurrentLevel = catalog.LevelFor(ledger.TotalBlossoms)
	if err := s.save(ctx, ledger); err != nil {
		return nil, err
	}
	return awarded, nil
}

func (s *Service) load(ctx context.Context) (models.ProgressLedger, error) {
	ledger, err := s.store.Load(ctx)
	if err != nil {
		return models.ProgressLedger{}, fmt.Errorf("load ledger: %w", err)
	}
	normalize(&ledger)
	return ledger, nil
}

func (s *Service) save(ctx context.Context, ledger models.ProgressLedger) error {
	if err := s.store.Save(ctx, ledger); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func (s *Service) completedOn(l *models.ProgressLedger, day string) bool {
	for _, rec := range l.CompletedExercises {
		if utils.Day(rec.CompletedAt, s.loc) == day {
			return true
		}
	}
	return false
}

// lastStreakDay is the day of the last completion that counted for the streak.
func (s *Service) lastStreakDay(l *models.ProgressLedger) string {
	if l.LastStreakDay != "" {
		return l.LastStreakDay
	}
	if rec, ok := l.LastCompletion(); ok {
		return utils.Day(rec.CompletedAt, s.loc)
	}
	return ""
}

// applyStreak sets the streak for a completion on today:
// none -> 1, yesterday -> +1, today -> unchanged, older -> 1.
func (s *Service) applyStreak(l *models.ProgressLedger, today string) int {
	last := s.lastStreakDay(l)

	switch {
	case last == today:
		if l.StreakCounter < 1 {
			l.StreakCounter = 1
		}
	case last != "" && last == utils.PrevDay(today):
		l.StreakCounter++
	default:
		l.StreakCounter = 1
	}
	l.LastStreakDay = today
	return l.StreakCounter
}

// applySequence reports whether hub is complete and whether the bonus was paid now.
func (s *Service) applySequence(l *models.ProgressLedger, hub string) (complete, paid bool) {
	seen := make(map[int]struct{}, s.hubSize)
	for _, rec := range l.CompletedExercises {
		if rec.HubName == hub && rec.ExerciseIndex >= 0 && rec.ExerciseIndex < s.hubSize {
			seen[rec.ExerciseIndex] = struct{}{}
		}
	}
	complete = len(seen) == s.hubSize
	if !complete || l.HasHubSequence(hub) {
		return complete, false
	}

	l.HubSequencesCompleted = append(l.HubSequencesCompleted, hub)
	l.UnsyncedSequences = append(l.UnsyncedSequences, hub)
	l.TotalBlossoms += SequenceBlossoms
	l.UnsyncedBlossoms += SequenceBlossoms
	s.logger.Info("hub sequence completed", "hub", hub)
	return true, true
}

func (s *Service) applyBadges(l *models.ProgressLedger, now time.Time) []models.Badge {
	var awarded []models.Badge
	for _, rule := range badgeRules {
		if l.HasBadge(rule.badge.ID) || !rule.earned(l, now, s.loc) {
			continue
		}
		l.BadgesUnlocked = append(l.BadgesUnlocked, rule.badge.ID)
		l.UnsyncedBadges = append(l.UnsyncedBadges, rule.badge.ID)
		l.TotalBlossoms += BadgeBlossoms
		l.UnsyncedBlossoms += BadgeBlossoms
		awarded = append(awarded, rule.badge)
		s.logger.Info("badge unlocked", "badge", rule.badge.ID)
	}
	return awarded
}

// normalize fills in collections a decoded ledger may lack.
func normalize(l *models.ProgressLedger) {
	if l.CompletedExercises == nil {
		l.CompletedExercises = []models.ExerciseRecord{}
	}
	if l.ExerciseCategories == nil {
		l.ExerciseCategories = map[string]int{}
	}
	if l.BadgesUnlocked == nil {
		l.BadgesUnlocked = []string{}
	}
	if l.HubSequencesCompleted == nil {
		l.HubSequencesCompleted = []string{}
	}
	if l.CurrentLevel < 1 {
		l.CurrentLevel = catalog.LevelFor(l.TotalBlossoms)
	}
	if l.StreakMultiplier == 0 {
		l.StreakMultiplier = 1.0
	}
}
