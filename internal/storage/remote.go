package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/progress"
	"github.com/google/uuid"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Fixed width, so text comparison in SQL orders the same as time.
const remoteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Statements run one at a time; the libSQL HTTP protocol takes a single statement
// per request.
var remoteSchema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
        id TEXT PRIMARY KEY,
        blossoms INTEGER NOT NULL DEFAULT 0,
        streak INTEGER NOT NULL DEFAULT 0,
        streak_multiplier REAL NOT NULL DEFAULT 1.0,
        level INTEGER NOT NULL DEFAULT 1,
        last_exercise_date TEXT,
        updated_at TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS exercises_completed (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        hub_name TEXT NOT NULL,
        exercise_name TEXT NOT NULL,
        exercise_index INTEGER NOT NULL,
        rating INTEGER NOT NULL,
        blossoms_earned INTEGER NOT NULL,
        completed_at TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS exercises_completed_user
        ON exercises_completed (user_id, completed_at)`,
	`CREATE TABLE IF NOT EXISTS hub_sequences_completed (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        hub_name TEXT NOT NULL,
        completed_at TEXT NOT NULL,
        UNIQUE (user_id, hub_name)
    )`,
	`CREATE TABLE IF NOT EXISTS badges (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        badge_id TEXT NOT NULL,
        awarded_at TEXT NOT NULL,
        UNIQUE (user_id, badge_id)
    )`,
}

// RemoteGateway is the remote profile store reached over SQL. It only ever inserts
// and upserts.
type RemoteGateway struct {
	DB  *sql.DB
	now func() time.Time
}

// OpenTurso connects to the hosted libSQL database.
func OpenTurso(ctx context.Context, url, authToken string) (*RemoteGateway, error) {
	if url == "" {
		return nil, errors.New("TURSO_DATABASE_URL not set")
	}
	dsn := url
	if authToken != "" {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		dsn = url + sep + "authToken=" + authToken
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("Failed to open db %s: %w", url, err)
	}
	return NewRemoteGateway(ctx, db)
}

// OpenDevRemote stands a local SQLite file in for the hosted database.
func OpenDevRemote(ctx context.Context, path string) (*RemoteGateway, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	return NewRemoteGateway(ctx, db)
}

// NewRemoteGateway applies the schema to db and wraps it.
func NewRemoteGateway(ctx context.Context, db *sql.DB) (*RemoteGateway, error) {
	for _, stmt := range remoteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("Failed to initialize remote schema: %w", err)
		}
	}
	return &RemoteGateway{DB: db, now: time.Now}, nil
}

func (g *RemoteGateway) Close() error {
	return g.DB.Close()
}

func formatRemoteTime(t time.Time) string {
	return t.UTC().Format(remoteTimeLayout)
}

func (g *RemoteGateway) GetProfile(ctx context.Context, userID string) (models.RemoteProfile, error) {
	row := g.DB.QueryRowContext(ctx, `
        SELECT id, blossoms, streak, streak_multiplier, level, last_exercise_date
        FROM profiles
        WHERE id = ?
    `, userID)

	var p models.RemoteProfile
	var lastDate sql.NullString
	err := row.Scan(&p.UserID, &p.Blossoms, &p.Streak, &p.StreakMultiplier, &p.Level, &lastDate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RemoteProfile{}, progress.ErrProfileNotFound
	}
	if err != nil {
		return models.RemoteProfile{}, fmt.Errorf("Failed to get profile: %w", err)
	}
	if lastDate.Valid {
		p.LastExerciseDate = lastDate.String
	}
	return p, nil
}

func (g *RemoteGateway) UpsertProfile(ctx context.Context, p models.RemoteProfile) error {
	var lastDate any
	if p.LastExerciseDate != "" {
		lastDate = p.LastExerciseDate
	}

	_, err := g.DB.ExecContext(ctx, `
        INSERT INTO profiles (id, blossoms, streak, streak_multiplier, level, last_exercise_date, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            blossoms = excluded.blossoms,
            streak = excluded.streak,
            streak_multiplier = excluded.streak_multiplier,
            level = excluded.level,
            last_exercise_date = excluded.last_exercise_date,
            updated_at = excluded.updated_at
    `, p.UserID, p.Blossoms, p.Streak, p.StreakMultiplier, p.Level, lastDate, formatRemoteTime(g.now()))
	if err != nil {
		return fmt.Errorf("Failed to upsert profile: %w", err)
	}
	return nil
}

func (g *RemoteGateway) InsertExercise(ctx context.Context, userID string, rec models.ExerciseRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	_, err := g.DB.ExecContext(ctx, `
        INSERT INTO exercises_completed
            (id, user_id, hub_name, exercise_name, exercise_index, rating, blossoms_earned, completed_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT DO NOTHING
    `, rec.ID, userID, rec.HubName, rec.ExerciseName, rec.ExerciseIndex, rec.Rating, rec.BlossomsEarned,
		formatRemoteTime(rec.CompletedAt))
	if err != nil {
		return fmt.Errorf("Failed to insert exercise: %w", err)
	}
	return nil
}

// ListExercises returns the user's whole history, oldest first.
func (g *RemoteGateway) ListExercises(ctx context.Context, userID string) ([]models.ExerciseRecord, error) {
	rows, err := g.DB.QueryContext(ctx, `
        SELECT id, hub_name, exercise_name, exercise_index, rating, blossoms_earned, completed_at
        FROM exercises_completed
        WHERE user_id = ?
        ORDER BY completed_at ASC, id ASC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to list exercises: %w", err)
	}
	defer rows.Close()

	var out []models.ExerciseRecord
	for rows.Next() {
		var rec models.ExerciseRecord
		var rawTime string
		if err := rows.Scan(&rec.ID, &rec.HubName, &rec.ExerciseName, &rec.ExerciseIndex,
			&rec.Rating, &rec.BlossomsEarned, &rawTime); err != nil {
			return nil, fmt.Errorf("Failed to scan exercise: %w", err)
		}
		rec.CompletedAt, err = time.Parse(time.RFC3339Nano, rawTime)
		if err != nil {
			return nil, fmt.Errorf("Failed to parse completed_at %q: %w", rawTime, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (g *RemoteGateway) InsertHubSequence(ctx context.Context, userID, hub string) error {
	_, err := g.DB.ExecContext(ctx, `
        INSERT INTO hub_sequences_completed (id, user_id, hub_name, completed_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT DO NOTHING
    `, uuid.New().String(), userID, hub, formatRemoteTime(g.now()))
	if err != nil {
		return fmt.Errorf("Failed to insert hub sequence: %w", err)
	}
	return nil
}

func (g *RemoteGateway) ListHubSequences(ctx context.Context, userID string) ([]string, error) {
	return g.listColumn(ctx, `
        SELECT hub_name FROM hub_sequences_completed
        WHERE user_id = ?
        ORDER BY completed_at ASC, hub_name ASC
    `, userID)
}

func (g *RemoteGateway) InsertBadge(ctx context.Context, userID, badgeID string) error {
	_, err := g.DB.ExecContext(ctx, `
        INSERT INTO badges (id, user_id, badge_id, awarded_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT DO NOTHING
    `, uuid.New().String(), userID, badgeID, formatRemoteTime(g.now()))
	if err != nil {
		return fmt.Errorf("Failed to insert badge: %w", err)
	}
	return nil
}

func (g *RemoteGateway) ListBadges(ctx context.Context, userID string) ([]string, error) {
	return g.listColumn(ctx, `
        SELECT badge_id FROM badges
        WHERE user_id = ?
        ORDER BY awarded_at ASC, badge_id ASC
    `, userID)
}

func (g *RemoteGateway) listColumn(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := g.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to query: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

var _ progress.RemoteProfileGateway = (*RemoteGateway)(nil)
var _ progress.LedgerStore = (*LocalStore)(nil)
