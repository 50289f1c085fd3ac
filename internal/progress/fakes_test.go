package progress

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
)

var errBoom = errors.New("boom")

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) set(t time.Time) { c.now = t }

type memStore struct {
	mu      sync.Mutex
	ledger  *models.ProgressLedger
	saves   int
	saveErr error
	loadErr error
}

func (m *memStore) Load(context.Context) (models.ProgressLedger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return models.ProgressLedger{}, m.loadErr
	}
	if m.ledger == nil {
		return models.NewLedger(), nil
	}
	return cloneLedger(*m.ledger), nil
}

func (m *memStore) Save(_ context.Context, l models.ProgressLedger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	c := cloneLedger(l)
	m.ledger = &c
	m.saves++
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger = nil
	return nil
}

func cloneLedger(l models.ProgressLedger) models.ProgressLedger {
	out := l
	out.CompletedExercises = append([]models.ExerciseRecord{}, l.CompletedExercises...)
	out.BadgesUnlocked = append([]string{}, l.BadgesUnlocked...)
	out.HubSequencesCompleted = append([]string{}, l.HubSequencesCompleted...)
	out.UnsyncedBadges = append([]string(nil), l.UnsyncedBadges...)
	out.UnsyncedSequences = append([]string(nil), l.UnsyncedSequences...)
	out.ExerciseCategories = map[string]int{}
	for k, v := range l.ExerciseCategories {
		out.ExerciseCategories[k] = v
	}
	if l.LastSyncedAt != nil {
		at := *l.LastSyncedAt
		out.LastSyncedAt = &at
	}
	return out
}

type memRemote struct {
	mu sync.Mutex

	profiles  map[string]models.RemoteProfile
	exercises map[string][]models.ExerciseRecord
	sequences map[string][]string
	badges    map[string][]string

	// failAfter makes InsertExercise fail once this many inserts succeeded. -1 never fails.
	failAfter int
	inserts   int
	down      bool
}

func newMemRemote() *memRemote {
	return &memRemote{
		profiles:  map[string]models.RemoteProfile{},
		exercises: map[string][]models.ExerciseRecord{},
		sequences: map[string][]string{},
		badges:    map[string][]string{},
		failAfter: -1,
	}
}

func (r *memRemote) GetProfile(_ context.Context, uid string) (models.RemoteProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return models.RemoteProfile{}, errBoom
	}
	p, ok := r.profiles[uid]
	if !ok {
		return models.RemoteProfile{}, ErrProfileNotFound
	}
	return p, nil
}

func (r *memRemote) UpsertProfile(_ context.Context, p models.RemoteProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return errBoom
	}
	r.profiles[p.UserID] = p
	return nil
}

func (r *memRemote) InsertExercise(_ context.Context, uid string, rec models.ExerciseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down || (r.failAfter >= 0 && r.inserts >= r.failAfter) {
		return errBoom
	}
	for _, have := range r.exercises[uid] {
		if have.ID == rec.ID {
			return nil
		}
	}
	r.exercises[uid] = append(r.exercises[uid], rec)
	r.inserts++
	return nil
}

func (r *memRemote) ListExercises(_ context.Context, uid string) ([]models.ExerciseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return nil, errBoom
	}
	return append([]models.ExerciseRecord{}, r.exercises[uid]...), nil
}

func (r *memRemote) InsertHubSequence(_ context.Context, uid, hub string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return errBoom
	}
	r.sequences[uid] = addOnce(r.sequences[uid], hub)
	return nil
}

func (r *memRemote) ListHubSequences(_ context.Context, uid string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return nil, errBoom
	}
	return append([]string{}, r.sequences[uid]...), nil
}

func (r *memRemote) InsertBadge(_ context.Context, uid, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return errBoom
	}
	r.badges[uid] = addOnce(r.badges[uid], id)
	return nil
}

func (r *memRemote) ListBadges(_ context.Context, uid string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return nil, errBoom
	}
	return append([]string{}, r.badges[uid]...), nil
}

func addOnce(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

// switchIdentity lets a test sign in and out.
type switchIdentity struct {
	id string
}

func (s *switchIdentity) UserID(context.Context) (string, bool) {
	return s.id, s.id != ""
}
