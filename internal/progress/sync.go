package progress

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/catalog"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/utils"
)

type SyncStatus int

const (
	SyncSkipped SyncStatus = iota
	SyncDone
)

func (s SyncStatus) String() string {
	if s == SyncDone {
		return "done"
	}
	return "skipped"
}

type SyncResult struct {
	Status SyncStatus
	// Pushed counts records sent to the remote, Pulled records taken from it.
	Pushed int
	Pulled int
	// ProfileCreated is set when a merge found no remote profile and created one.
	ProfileCreated bool
}

// SyncToRemote pushes every record newer than the watermark, then the hub
// sequence markers and badges. Blossoms earned since the last push are added to
// the remote profile, never written over it. Without a signed-in user it is
// skipped.
func (s *Service) SyncToRemote(ctx context.Context) (SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncLocked(ctx)
}

// MergeFromRemote replaces the shared local fields with the remote ones. It
// fails with ErrUnsyncedProgress while local progress has not been pushed.
func (s *Service) MergeFromRemote(ctx context.Context) (SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mergeLocked(ctx)
}

// Reconcile flushes local records and then adopts the remote state. The merge is
// not attempted if the flush fails, since it would drop unpushed records.
func (s *Service) Reconcile(ctx context.Context) (SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pushed, err := s.syncLocked(ctx)
	if err != nil || pushed.Status == SyncSkipped {
		return pushed, err
	}

	merged, err := s.mergeLocked(ctx)
	merged.Pushed = pushed.Pushed
	return merged, err
}

func (s *Service) user(ctx context.Context) (string, bool) {
	if s.remote == nil || s.identity == nil {
		return "", false
	}
	return s.identity.UserID(ctx)
}

func remoteErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRemoteUnavailable, op, err)
}

func (s *Service) syncLocked(ctx context.Context) (SyncResult, error) {
	uid, ok := s.user(ctx)
	if !ok {
		return SyncResult{Status: SyncSkipped}, nil
	}

	ledger, err := s.load(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	pending := pendingRecords(&ledger)
	res := SyncResult{}

	// safe is the newest time at which every pending record up to it is pushed.
	var safe *time.Time
	var pushErr error
	for i, rec := range pending {
		if err := s.remote.InsertExercise(ctx, uid, rec); err != nil {
			pushErr = remoteErr("push exercise", err)
			break
		}
		res.Pushed++
		if i+1 == len(pending) || pending[i+1].CompletedAt.After(rec.CompletedAt) {
			at := rec.CompletedAt
			safe = &at
		}
	}

	if safe != nil {
		ledger.LastSyncedAt = safe
		if err := s.save(ctx, ledger); err != nil {
			return res, err
		}
	}
	if pushErr != nil {
		s.logger.Warn("sync interrupted", "pushed", res.Pushed, "pending", len(pending)-res.Pushed)
		return res, pushErr
	}

	if err := s.pushAwardsLocked(ctx, uid, &ledger, res.Pushed); err != nil {
		return res, err
	}

	res.Status = SyncDone
	s.logger.Debug("synced", "user", uid, "pushed", res.Pushed)
	return res, nil
}

func (s *Service) mergeLocked(ctx context.Context) (SyncResult, error) {
	uid, ok := s.user(ctx)
	if !ok {
		return SyncResult{Status: SyncSkipped}, nil
	}

	ledger, err := s.load(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	if n := len(pendingRecords(&ledger)); n > 0 || hasUnsyncedAwards(&ledger) {
		return SyncResult{}, fmt.Errorf("%w: %d records pending", ErrUnsyncedProgress, n)
	}

	profile, err := s.remote.GetProfile(ctx, uid)
	if errors.Is(err, ErrProfileNotFound) {
		if err := s.remote.UpsertProfile(ctx, profileOf(uid, &ledger)); err != nil {
			return SyncResult{}, remoteErr("create profile", err)
		}
		s.logger.Info("remote profile created", "user", uid)
		return SyncResult{Status: SyncDone, ProfileCreated: true}, nil
	}
	if err != nil {
		return SyncResult{}, remoteErr("get profile", err)
	}

	records, err := s.remote.ListExercises(ctx, uid)
	if err != nil {
		return SyncResult{}, remoteErr("list exercises", err)
	}
	badges, err := s.remote.ListBadges(ctx, uid)
	if err != nil {
		return SyncResult{}, remoteErr("list badges", err)
	}
	sequences, err := s.remote.ListHubSequences(ctx, uid)
	if err != nil {
		return SyncResult{}, remoteErr("list hub sequences", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CompletedAt.Before(records[j].CompletedAt)
	})

	ledger.TotalBlossoms = profile.Blossoms
	ledger.StreakCounter = profile.Streak
	ledger.StreakMultiplier = profile.StreakMultiplier
	ledger.LastStreakDay = profile.LastExerciseDate
	ledger.CompletedExercises = append([]models.ExerciseRecord{}, records...)
	ledger.BadgesUnlocked = append([]string{}, badges...)
	ledger.HubSequencesCompleted = append([]string{}, sequences...)

	ledger.ExerciseCategories = map[string]int{}
	for _, rec := range records {
		ledger.ExerciseCategories[rec.HubName]++
	}
	ledger.CurrentLevel = catalog.LevelFor(ledger.TotalBlossoms)

	ledger.LastSyncedAt = nil
	if len(records) > 0 {
		at := records[len(records)-1].CompletedAt
		ledger.LastSyncedAt = &at
	}
	normalize(&ledger)

	if err := s.save(ctx, ledger); err != nil {
		return SyncResult{}, err
	}

	s.logger.Info("merged remote progress", "user", uid, "records", len(records), "blossoms", ledger.TotalBlossoms)
	return SyncResult{Status: SyncDone, Pulled: len(records)}, nil
}

// pushAwardsLocked sends the local hub sequences and badges and adds the
// blossoms earned since the last push to the remote profile. Awards the remote
// already holds are not paid twice.
func (s *Service) pushAwardsLocked(ctx context.Context, uid string, l *models.ProgressLedger, pushed int) error {
	update := pushed > 0 || hasUnsyncedAwards(l)

	var profile models.RemoteProfile
	created := false
	gained := l.UnsyncedBlossoms
	if update {
		var err error
		profile, err = s.remote.GetProfile(ctx, uid)
		created = errors.Is(err, ErrProfileNotFound)
		if err != nil && !created {
			return remoteErr("get profile", err)
		}
		if !created {
			if gained, err = s.unpaidBlossoms(ctx, uid, l); err != nil {
				return err
			}
		}
	}

	for _, hub := range l.HubSequencesCompleted {
		if err := s.remote.InsertHubSequence(ctx, uid, hub); err != nil {
			return remoteErr("push hub sequence", err)
		}
	}
	for _, id := range l.BadgesUnlocked {
		if err := s.remote.InsertBadge(ctx, uid, id); err != nil {
			return remoteErr("push badge", err)
		}
	}
	if !update {
		return nil
	}

	if created {
		profile = profileOf(uid, l)
	} else {
		profile.Blossoms += max(gained, 0)
		profile.Streak, profile.LastExerciseDate = combineStreak(profile, l)
		if profile.StreakMultiplier == 0 {
			profile.StreakMultiplier = l.StreakMultiplier
		}
		profile.Level = catalog.LevelFor(profile.Blossoms)
	}
	if err := s.remote.UpsertProfile(ctx, profile); err != nil {
		return remoteErr("push profile", err)
	}

	l.UnsyncedBlossoms = 0
	l.UnsyncedBadges = nil
	l.UnsyncedSequences = nil
	return s.save(ctx, *l)
}

// unpaidBlossoms is the unsynced total less the bonuses for badges and hub
// sequences the remote profile was already paid for.
func (s *Service) unpaidBlossoms(ctx context.Context, uid string, l *models.ProgressLedger) (int, error) {
	badges, err := s.remote.ListBadges(ctx, uid)
	if err != nil {
		return 0, remoteErr("list badges", err)
	}
	sequences, err := s.remote.ListHubSequences(ctx, uid)
	if err != nil {
		return 0, remoteErr("list hub sequences", err)
	}

	gained := l.UnsyncedBlossoms
	for _, id := range l.UnsyncedBadges {
		if slices.Contains(badges, id) {
			gained -= BadgeBlossoms
		}
	}
	for _, hub := range l.UnsyncedSequences {
		if slices.Contains(sequences, hub) {
			gained -= SequenceBlossoms
		}
	}
	return gained, nil
}

func hasUnsyncedAwards(l *models.ProgressLedger) bool {
	return l.UnsyncedBlossoms > 0 || len(l.UnsyncedBadges) > 0 || len(l.UnsyncedSequences) > 0
}

// combineStreak joins the remote streak with the local one. The local run
// extends the remote one when it starts no later than the day after the remote
// streak's last day.
func combineStreak(p models.RemoteProfile, l *models.ProgressLedger) (int, string) {
	local, remote := l.LastStreakDay, p.LastExerciseDate
	switch {
	case local == "" || local < remote:
		return p.Streak, remote
	case local == remote:
		return max(p.Streak, l.StreakCounter), remote
	case remote == "":
		return l.StreakCounter, local
	}

	start := utils.AddDays(local, -(max(l.StreakCounter, 1) - 1))
	gap, err := utils.DaysBetween(remote, start)
	if err != nil || gap > 1 {
		return l.StreakCounter, local
	}
	span, err := utils.DaysBetween(remote, local)
	if err != nil {
		return l.StreakCounter, local
	}
	return p.Streak + span, local
}

// pendingRecords returns the records newer than the watermark, oldest first.
func pendingRecords(l *models.ProgressLedger) []models.ExerciseRecord {
	var out []models.ExerciseRecord
	for _, rec := range l.CompletedExercises {
		if l.LastSyncedAt == nil || rec.CompletedAt.After(*l.LastSyncedAt) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.Before(out[j].CompletedAt)
	})
	return out
}

func profileOf(uid string, l *models.ProgressLedger) models.RemoteProfile {
	return models.RemoteProfile{
		UserID:           uid,
		Blossoms:         l.TotalBlossoms,
		Streak:           l.StreakCounter,
		StreakMultiplier: l.StreakMultiplier,
		Level:            l.CurrentLevel,
		LastExerciseDate: l.LastStreakDay,
	}
}
