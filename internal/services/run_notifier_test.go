package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunNotifier_defaultChannel(t *testing.T) {
	n := NewRunNotifier(nil, "")
	assert.Equal(t, "replenish:runs", n.channel)
}

func TestRunNotifier_Publish_noopWithoutRedisClient(t *testing.T) {
	n := NewRunNotifier(nil, "")
	err := n.Publish(context.Background(), RunEvent{ReportID: "r1", Phase: "phase1"})
	assert.NoError(t, err)
}

func TestRunNotifier_PublishAndSubscribe(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer redisClient.Close()

	n := NewRunNotifier(redisClient, "test-channel")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, err := n.Subscribe(ctx)
	require.NoError(t, err)

	// miniredis pub/sub delivery is synchronous with Publish, but give the
	// subscription goroutine a moment to register before publishing.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, n.Publish(context.Background(), RunEvent{ReportID: "r1", Phase: "phase1", Detail: "ok"}))

	select {
	case got := <-events:
		assert.Equal(t, "r1", got.ReportID)
		assert.Equal(t, "phase1", got.Phase)
		assert.Equal(t, "ok", got.Detail)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

func TestRunNotifier_Subscribe_errorsWithoutRedisClient(t *testing.T) {
	n := NewRunNotifier(nil, "")
	_, err := n.Subscribe(context.Background())
	assert.Error(t, err)
}
