package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/PitchDeck/internal/config"
	"github.com/hetulpatel/PitchDeck/internal/models"
	"github.com/hetulpatel/PitchDeck/internal/pitch"
	sqlstore "github.com/hetulpatel/PitchDeck/internal/storage/sqlite"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("SQLITE_PATH", "")
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestExtractCommand(t *testing.T) {
	path := writeFile(t, "metrics.txt", "ARR: $1.2M, 40 customers")
	out, err := execute(t, "extract", path)
	require.NoError(t, err)
	require.Contains(t, out, "=== metrics.txt (text, 24 chars) ===")
	require.Contains(t, out, "ARR: $1.2M, 40 customers")

	_, err = execute(t, "extract")
	require.Error(t, err)
}

func TestGenerateCommandFallsBackWithoutKey(t *testing.T) {
	path := writeFile(t, "notes.md", "Traction: 40 customers")
	out, err := execute(t, "generate",
		"--company", "Acme", "--industry", "Fintech",
		"--problem", "slow onboarding", "--solution", "automated KYC",
		"--stage", "series-b", path)
	require.NoError(t, err)

	var p pitch.Pitch
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	require.Equal(t, pitch.MethodFallback, p.GenerationMethod)
	require.Equal(t, "Acme", p.CompanyName)
	require.Contains(t, p.WhyUs, "$30-50M")
}

func TestGenerateCommandValidates(t *testing.T) {
	_, err := execute(t, "generate", "--company", "Acme")
	var verr *pitch.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"industry", "problem", "solution"}, verr.Missing)
}

func TestRunsCommand(t *testing.T) {
	_, err := execute(t, "runs")
	require.Error(t, err)

	db := filepath.Join(t.TempDir(), "runs.db")
	out, err := execute(t, "runs", "--db", db, "--limit", "5")
	require.NoError(t, err)
	require.Contains(t, out, "COMPANY")
}

func TestRunsCommandReset(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	store, err := sqlstore.Open(db)
	require.NoError(t, err)
	require.NoError(t, store.CreateTables(context.Background()))
	run := models.NewRun("Acme", "Fintech", "seed", time.Now())
	run.Method = "ai"
	require.NoError(t, store.InsertRun(context.Background(), run))
	require.NoError(t, store.Close())

	out, err := execute(t, "runs", "--db", db)
	require.NoError(t, err)
	require.Contains(t, out, "Acme")

	out, err = execute(t, "runs", "--db", db, "--reset")
	require.NoError(t, err)
	require.Contains(t, out, "cleared")
	require.NotContains(t, out, "Acme")
}

func TestEventsTopicDefaults(t *testing.T) {
	t.Setenv("PITCH_EVENTS_TOPIC", "")
	require.Equal(t, config.DefaultEventsTopic, eventsTopic(""))

	t.Setenv("PITCH_EVENTS_TOPIC", "staging.pitch.runs")
	require.Equal(t, "staging.pitch.runs", eventsTopic(""))
	require.Equal(t, "explicit", eventsTopic("explicit"))
}
