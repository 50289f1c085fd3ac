package progress

import (
	"context"
	"errors"
	"time"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
)

// ErrProfileNotFound is returned by a gateway when the user has no remote profile yet.
var ErrProfileNotFound = errors.New("remote profile not found")

// LedgerStore persists the ledger as a single value. Load returns a fresh ledger
// when nothing was saved yet.
type LedgerStore interface {
	Load(ctx context.Context) (models.ProgressLedger, error)
	Save(ctx context.Context, ledger models.ProgressLedger) error
	Clear(ctx context.Context) error
}

// RemoteProfileGateway is the remote store. Inserts are idempotent on the record or
// marker identity and nothing is ever deleted.
type RemoteProfileGateway interface {
	GetProfile(ctx context.Context, userID string) (models.RemoteProfile, error)
	UpsertProfile(ctx context.Context, profile models.RemoteProfile) error

	InsertExercise(ctx context.Context, userID string, rec models.ExerciseRecord) error
	ListExercises(ctx context.Context, userID string) ([]models.ExerciseRecord, error)

	InsertHubSequence(ctx context.Context, userID, hub string) error
	ListHubSequences(ctx context.Context, userID string) ([]string, error)

	InsertBadge(ctx context.Context, userID, badgeID string) error
	ListBadges(ctx context.Context, userID string) ([]string, error)
}

type IdentityProvider interface {
	// UserID reports the authenticated user, if any.
	UserID(ctx context.Context) (string, bool)
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// StaticIdentity is an IdentityProvider backed by a fixed user id. An empty id means
// nobody is signed in.
type StaticIdentity string

func (s StaticIdentity) UserID(context.Context) (string, bool) {
	return string(s), s != ""
}
