package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/hetulpatel/PitchDeck/internal/models"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// PublishRun places one run on the events topic, keyed by run id. A nil
// writer disables publishing.
func PublishRun(ctx context.Context, writer MessageWriter, run models.Run) error {
	if writer == nil {
		return nil
	}
	msg, err := RunMessage(run)
	if err != nil {
		return err
	}
	if err := writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish run %s: %w", run.ID, err)
	}
	return nil
}

// RunMessage encodes run as a kafka message.
func RunMessage(run models.Run) (kafka.Message, error) {
	payload, err := json.Marshal(run)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal run %s: %w", run.ID, err)
	}
	return kafka.Message{Key: []byte(run.ID), Value: payload}, nil
}

// DecodeRun parses a message written by PublishRun.
func DecodeRun(msg kafka.Message) (models.Run, error) {
	var run models.Run
	if err := json.Unmarshal(msg.Value, &run); err != nil {
		return models.Run{}, fmt.Errorf("decode run %s: %w", string(msg.Key), err)
	}
	return run, nil
}
