package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeQueue struct {
	queues []string
	bodies [][]byte
	err    error
}

func (f *fakeQueue) Publish(ctx context.Context, queueName string, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.queues = append(f.queues, queueName)
	f.bodies = append(f.bodies, body)
	return nil
}

func TestQueueNotifier(t *testing.T) {
	q := &fakeQueue{}
	n := NewQueueNotifier(q, "console_notifications", nil)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return fixed }

	n.Success(context.Background(), "Sub-bag 191020260001 created")
	n.Error(context.Background(), "Bag not found")

	require.Len(t, q.bodies, 2)
	assert.Equal(t, []string{"console_notifications", "console_notifications"}, q.queues)

	var first Notification
	require.NoError(t, json.Unmarshal(q.bodies[0], &first))
	assert.Equal(t, LevelSuccess, first.Level)
	assert.Equal(t, "Sub-bag 191020260001 created", first.Message)
	assert.True(t, first.CreatedAt.Equal(fixed))
	_, err := uuid.Parse(first.ID)
	assert.NoError(t, err)

	var second Notification
	require.NoError(t, json.Unmarshal(q.bodies[1], &second))
	assert.Equal(t, LevelError, second.Level)
}

func TestQueueNotifierSwallowsDeliveryErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	n := NewQueueNotifier(&fakeQueue{err: errors.New("broker gone")}, "q", zap.New(core))

	n.Error(context.Background(), "x")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "notification not delivered", logs.All()[0].Message)
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	n.Success(context.Background(), "done")
	n.Error(context.Background(), "failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "done", entries[0].Message)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}

func TestMulti(t *testing.T) {
	a, b := &fakeQueue{}, &fakeQueue{}
	m := Multi{NewQueueNotifier(a, "a", nil), NewQueueNotifier(b, "b", nil)}
	m.Success(context.Background(), "ok")
	m.Error(context.Background(), "bad")
	assert.Len(t, a.bodies, 2)
	assert.Len(t, b.bodies, 2)
}
