package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	sess, err := s.Create(ctx, 7, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, uint64(7), sess.AdminID)
	assert.Equal(t, "admin", sess.AdminUsername)

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	require.NoError(t, s.Delete(ctx, sess.ID))
	_, err = s.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUnknownID(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	_, err := s.Get(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute).(*memoryStore)

	now := time.Now()
	s.now = func() time.Time { return now }

	sess, err := s.Create(ctx, 1, "admin")
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(59 * time.Second) }
	_, err = s.Get(ctx, sess.ID)
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(61 * time.Second) }
	_, err = s.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// expired records are dropped, not just hidden
	s.mu.Lock()
	_, still := s.data[sess.ID]
	s.mu.Unlock()
	assert.False(t, still)
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0).(*memoryStore)

	now := time.Now()
	s.now = func() time.Time { return now }

	sess, err := s.Create(ctx, 1, "admin")
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(24 * time.Hour) }
	_, err = s.Get(ctx, sess.ID)
	assert.NoError(t, err)
}
