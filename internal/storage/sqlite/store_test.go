package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/PitchDeck/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.CreateTables(context.Background()))
	return s
}

func TestInsertAndListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	first := models.NewRun("Acme", "Fintech", "seed", base)
	first.Method = "ai"
	first.FileCount = 2
	first.ContextLength = 1234
	first.ContextHash = "abc"
	first.Duration = 1500 * time.Millisecond

	second := models.NewRun("Beta", "Health", "series-a", base.Add(time.Minute))
	second.Method = "fallback"
	second.Error = "AI generation failed; fallback template used"

	require.NoError(t, s.InsertRun(ctx, first))
	require.NoError(t, s.InsertRun(ctx, second))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, second.ID, runs[0].ID)
	require.Equal(t, "fallback", runs[0].Method)
	require.True(t, runs[0].Failed())

	got := runs[1]
	require.Equal(t, first.ID, got.ID)
	require.Equal(t, "Acme", got.CompanyName)
	require.Equal(t, "Fintech", got.Industry)
	require.Equal(t, "seed", got.FundingStage)
	require.Equal(t, 2, got.FileCount)
	require.Equal(t, 1234, got.ContextLength)
	require.Equal(t, "abc", got.ContextHash)
	require.Equal(t, 1500*time.Millisecond, got.Duration)
	require.True(t, got.CreatedAt.Equal(base))
	require.Empty(t, got.Error)

	limited, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestInsertRunRejectsDuplicatesAndMissingID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := models.NewRun("Acme", "Fintech", "seed", time.Now())
	run.Method = "ai"
	require.NoError(t, s.InsertRun(ctx, run))
	require.Error(t, s.InsertRun(ctx, run))

	run.ID = ""
	require.Error(t, s.InsertRun(ctx, run))
}

func TestListRunsEmpty(t *testing.T) {
	s := openTestStore(t)
	runs, err := s.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestNilStore(t *testing.T) {
	var s *Store
	require.NoError(t, s.Close())
	require.Error(t, s.InsertRun(context.Background(), models.Run{ID: "x"}))
	_, err := s.ListRuns(context.Background(), 1)
	require.Error(t, err)
}
