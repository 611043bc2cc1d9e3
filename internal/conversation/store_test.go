package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluxo-ai/internal/models"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore(30*time.Minute, 100)
	ctx := context.Background()

	_, err := store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sess := models.NewSession("user-1")
	require.NoError(t, store.Create(ctx, sess))

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)

	sess.Industry = "varejo"
	require.NoError(t, store.Update(ctx, sess))

	got, err = store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "varejo", got.Industry)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore(10*time.Minute, 100)
	ctx := context.Background()

	sess := models.NewSession("user-1")
	sess.LastActivity = time.Now().Add(-20 * time.Minute)
	require.NoError(t, store.Create(ctx, sess))

	_, err := store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_SweepEvictsIdleSessions(t *testing.T) {
	store := NewMemoryStore(10*time.Minute, 100)
	ctx := context.Background()

	stale := models.NewSession("stale")
	stale.LastActivity = time.Now().Add(-1 * time.Hour)
	require.NoError(t, store.Create(ctx, stale))

	fresh := models.NewSession("fresh")
	require.NoError(t, store.Create(ctx, fresh))

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())

	_, err := store.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryStore_CapacityEvictsOldest(t *testing.T) {
	store := NewMemoryStore(time.Hour, 2)
	ctx := context.Background()

	oldest := models.NewSession("oldest")
	oldest.LastActivity = time.Now().Add(-30 * time.Minute)
	require.NoError(t, store.Create(ctx, oldest))

	middle := models.NewSession("middle")
	middle.LastActivity = time.Now().Add(-10 * time.Minute)
	require.NoError(t, store.Create(ctx, middle))

	require.NoError(t, store.Create(ctx, models.NewSession("newest")))

	assert.Equal(t, 2, store.Len())
	_, err := store.Get(ctx, "oldest")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(ctx, "middle")
	assert.NoError(t, err)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore(0, 100)
	ctx := context.Background()

	sess := models.NewSession("user-1")
	sess.LastActivity = time.Now().Add(-24 * time.Hour)
	require.NoError(t, store.Create(ctx, sess))

	_, err := store.Get(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, store.Sweep())
}
