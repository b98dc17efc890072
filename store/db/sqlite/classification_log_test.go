package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/careerbot/internal/profile"
	"github.com/hrygo/careerbot/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	p := &profile.Profile{Mode: "dev", Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "audit.db")}
	driver, err := NewDB(p)
	require.NoError(t, err)

	s := store.New(driver, p)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestNewDB_RequiresDSN(t *testing.T) {
	_, err := NewDB(&profile.Profile{})
	assert.EqualError(t, err, "dsn required")
}

func TestClassificationLog(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Migrations are idempotent.
	require.NoError(t, s.Migrate(ctx))

	first, err := s.CreateClassificationLog(ctx, &store.ClassificationLog{
		RequestID: "req-1",
		Platform:  "telegram",
		Intents:   []string{"role_suggestion", "career_path"},
		Entities:  map[string][]string{"technology": {"python", "react"}},
		Outcome:   "answered",
		LatencyMs: 3,
		CreatedTs: 100,
	})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.NotEmpty(t, first.UID)

	_, err = s.CreateClassificationLog(ctx, &store.ClassificationLog{
		RequestID: "req-2",
		Platform:  "console",
		Outcome:   "generic_help",
		CreatedTs: 200,
	})
	require.NoError(t, err)

	t.Run("newest first", func(t *testing.T) {
		list, err := s.ListClassificationLogs(ctx, nil)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "req-2", list[0].RequestID)
		assert.Empty(t, list[0].Intents)
		assert.Empty(t, list[0].Entities)

		got := list[1]
		assert.Equal(t, first.UID, got.UID)
		assert.Equal(t, []string{"role_suggestion", "career_path"}, got.Intents)
		assert.Equal(t, map[string][]string{"technology": {"python", "react"}}, got.Entities)
		assert.Equal(t, int64(3), got.LatencyMs)
	})

	t.Run("filters", func(t *testing.T) {
		platform := "telegram"
		list, err := s.ListClassificationLogs(ctx, &store.FindClassificationLog{Platform: &platform})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "req-1", list[0].RequestID)

		outcome := "not_sure"
		list, err = s.ListClassificationLogs(ctx, &store.FindClassificationLog{Outcome: &outcome})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("limit", func(t *testing.T) {
		list, err := s.ListClassificationLogs(ctx, &store.FindClassificationLog{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("duplicate uid", func(t *testing.T) {
		_, err := s.CreateClassificationLog(ctx, &store.ClassificationLog{UID: first.UID, Platform: "web", Outcome: "answered"})
		assert.Error(t, err)
	})
}
