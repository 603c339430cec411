package importers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(start time.Time) (*Registry, *time.Time) {
	clock := start
	r := NewRegistry(&mockCreator{}, 10*time.Minute)
	r.now = func() time.Time { return clock }
	return r, &clock
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r, _ := newTestRegistry(time.Now())

	session := r.Create(1)
	require.NotEmpty(t, session.ID())
	assert.Equal(t, StateIdle, session.State())

	got, ok := r.Get(session.ID(), 1)
	require.True(t, ok)
	assert.Same(t, session, got)

	_, ok = r.Get(session.ID(), 2)
	assert.False(t, ok, "sessions are scoped to their owner")

	_, ok = r.Get("missing", 1)
	assert.False(t, ok)

	assert.NotEqual(t, session.ID(), r.Create(1).ID())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Remove(t *testing.T) {
	r, _ := newTestRegistry(time.Now())
	session := r.Create(1)

	assert.False(t, r.Remove(session.ID(), 2))
	assert.True(t, r.Remove(session.ID(), 1))
	assert.False(t, r.Remove(session.ID(), 1))

	_, ok := r.Get(session.ID(), 1)
	assert.False(t, ok)
}

func TestRegistry_PurgeExpired(t *testing.T) {
	start := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	r, clock := newTestRegistry(start)

	stale := r.Create(1)
	*clock = start.Add(8 * time.Minute)
	fresh := r.Create(1)

	assert.Equal(t, 0, r.PurgeExpired(start.Add(9*time.Minute)))
	assert.Equal(t, 1, r.PurgeExpired(start.Add(11*time.Minute)))

	_, ok := r.Get(stale.ID(), 1)
	assert.False(t, ok)
	_, ok = r.Get(fresh.ID(), 1)
	assert.True(t, ok)
}

func TestRegistry_GetKeepsSessionAlive(t *testing.T) {
	start := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	r, clock := newTestRegistry(start)

	session := r.Create(1)
	*clock = start.Add(9 * time.Minute)
	_, ok := r.Get(session.ID(), 1)
	require.True(t, ok)

	assert.Equal(t, 0, r.PurgeExpired(start.Add(15*time.Minute)))
	assert.Equal(t, 1, r.PurgeExpired(start.Add(20*time.Minute)))
}

func TestRegistry_LoadedSessionCommits(t *testing.T) {
	creator := &mockCreator{}
	r := NewRegistry(creator, 0)
	session := r.Create(5)

	_, err := session.Load(context.Background(), "log.csv", strings.NewReader("title,description\nA,B\n"))
	require.NoError(t, err)
	result, err := session.Commit(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Success)
	assert.Equal(t, uint(5), creator.entries[0].UserID)
}
