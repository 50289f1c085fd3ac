package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"dump.toml", "dump.yaml", "dump.yml"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), name)

			require.NoError(t, ExportLedger(sampleLedger(), path))
			got, err := ImportLedger(path)
			require.NoError(t, err)

			want := sampleLedger()
			assert.Equal(t, want.TotalBlossoms, got.TotalBlossoms)
			assert.Equal(t, want.StreakCounter, got.StreakCounter)
			assert.Equal(t, want.LastStreakDay, got.LastStreakDay)
			assert.Equal(t, want.BadgesUnlocked, got.BadgesUnlocked)
			assert.Equal(t, want.ExerciseCategories, got.ExerciseCategories)
			assert.Equal(t, 3, got.CurrentLevel)
			require.Len(t, got.CompletedExercises, 2)
			assert.Equal(t, "r1", got.CompletedExercises[0].ID)
			assert.True(t, at.Equal(got.CompletedExercises[0].CompletedAt))
			require.NotNil(t, got.LastSyncedAt)
			assert.True(t, at.Equal(*got.LastSyncedAt))
		})
	}
}

func TestImportRebuildsDerivedFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "dump.toml")

	l := sampleLedger()
	l.ExerciseCategories = map[string]int{"bogus": 9}
	l.CurrentLevel = 11
	require.NoError(t, ExportLedger(l, path))

	got, err := ImportLedger(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"return-calm": 1, "move-body": 1}, got.ExerciseCategories)
	assert.Equal(t, 3, got.CurrentLevel)
}

func TestImportRejectsBadRating(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "dump.yaml")

	data := `total_blossoms: 5
completed_exercises:
  - id: r1
    hub_name: return-calm
    rating: 9
    completed_at: 2026-03-02T14:00:00Z
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	_, err := ImportLedger(path)
	assert.ErrorContains(t, err, "rating 9")
}

func TestUnsupportedFormat(t *testing.T) {
	t.Parallel()

	err := ExportLedger(sampleLedger(), filepath.Join(t.TempDir(), "dump.json"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ImportLedger("dump.csv")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
