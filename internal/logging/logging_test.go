package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        LevelInfo,
		"info":    LevelInfo,
		"DEBUG":   LevelDebug,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"verbose": LevelInfo,
	}
	for raw, want := range cases {
		require.Equal(t, want, ParseLevel(raw), "LOG_LEVEL=%q", raw)
	}
}

func TestInitFromEnv(t *testing.T) {
	t.Cleanup(func() { SetLevel(LevelInfo) })

	t.Setenv("LOG_LEVEL", "error")
	InitFromEnv()
	require.Equal(t, LevelError, Current())

	t.Setenv("LOG_LEVEL", "debug")
	InitFromEnv()
	require.Equal(t, LevelDebug, Current())
	Debugf("debug line %d", 1)
}

func TestLevelStringRoundTrips(t *testing.T) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		require.Equal(t, l, ParseLevel(l.String()))
	}
}
