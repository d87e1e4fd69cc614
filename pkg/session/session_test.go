package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTurns() []Turn {
	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return []Turn{
		{Speaker: SpeakerUser, Text: "Delete user with id 10", At: at},
		{Speaker: SpeakerAgent, Text: `{"id": 10, "deleted": true}`, At: at.Add(time.Second)},
	}
}

func TestMemoryStoreAppendAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", sampleTurns()...))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)
	require.Len(t, got.Turns, 2)
	assert.Equal(t, SpeakerUser, got.Turns[0].Speaker)
	assert.Equal(t, SpeakerAgent, got.Turns[1].Speaker)
}

func TestMemoryStoreUnknownSessionIsEmpty(t *testing.T) {
	s := NewMemoryStore()
	got, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got.Turns)
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", sampleTurns()...))
	require.NoError(t, s.Clear(ctx, "s1"))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.Turns)
}

func newRedisStore(t *testing.T, opts ...Option) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreFromClient(client, opts...), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", sampleTurns()...))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Turns, 2)
	assert.Equal(t, "Delete user with id 10", got.Turns[0].Text)

	// Appends accumulate in order.
	require.NoError(t, s.Append(ctx, "s1", Turn{Speaker: SpeakerUser, Text: "again"}))
	got, err = s.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Turns, 3)
	assert.Equal(t, "again", got.Turns[2].Text)
}

func TestRedisStoreUnknownSessionIsEmpty(t *testing.T) {
	s, _ := newRedisStore(t)
	got, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got.Turns)
}

func TestRedisStoreClear(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", sampleTurns()...))
	require.NoError(t, s.Clear(ctx, "s1"))

	assert.False(t, mr.Exists("useragent:transcript:s1"))
}

func TestRedisStoreTTL(t *testing.T) {
	s, mr := newRedisStore(t, WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", sampleTurns()...))
	assert.Equal(t, time.Minute, mr.TTL("useragent:transcript:s1"))

	mr.FastForward(2 * time.Minute)
	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.Turns)
}

func TestRedisStorePrefixOption(t *testing.T) {
	s, mr := newRedisStore(t, WithPrefix("chat:"))
	require.NoError(t, s.Append(context.Background(), "s1", sampleTurns()...))
	assert.True(t, mr.Exists("chat:s1"))
}
