package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/PitchDeck/internal/models"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestPublishRun(t *testing.T) {
	run := models.NewRun("Acme", "Fintech", "seed", time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC))
	run.Method = "ai"
	run.Duration = 2 * time.Second

	w := &recordingWriter{}
	require.NoError(t, PublishRun(context.Background(), w, run))
	require.Len(t, w.msgs, 1)
	require.Equal(t, run.ID, string(w.msgs[0].Key))

	back, err := DecodeRun(w.msgs[0])
	require.NoError(t, err)
	require.Equal(t, run.ID, back.ID)
	require.Equal(t, "Acme", back.CompanyName)
	require.Equal(t, 2*time.Second, back.Duration)
	require.True(t, back.CreatedAt.Equal(run.CreatedAt))
}

func TestPublishRunNilWriter(t *testing.T) {
	require.NoError(t, PublishRun(context.Background(), nil, models.Run{ID: "x"}))
}

func TestPublishRunWrapsError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	err := PublishRun(context.Background(), w, models.Run{ID: "x"})
	require.ErrorContains(t, err, "publish run x")
}

func TestDecodeRunRejectsGarbage(t *testing.T) {
	_, err := DecodeRun(kafka.Message{Key: []byte("k"), Value: []byte("nope")})
	require.Error(t, err)
}
