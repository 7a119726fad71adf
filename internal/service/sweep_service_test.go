package service

import (
	"context"
	"testing"
	"time"

	"shorturl-go/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSweep(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	stale := time.Now().AddDate(0, -2, 0)
	require.NoError(t, store.Insert(ctx, repository.Generated, &repository.Record{
		Code: "stale1", DestinationURL: "https://a.example.com", LastClickedAt: stale,
	}))
	require.NoError(t, store.Insert(ctx, repository.Custom, &repository.Record{
		Code: "ab12", DestinationURL: "https://b.example.com", OwnerID: "owner-1", LastClickedAt: stale,
	}))
	require.NoError(t, store.Insert(ctx, repository.Generated, &repository.Record{
		Code: "fresh1", DestinationURL: "https://c.example.com", LastClickedAt: time.Now(),
	}))

	s := NewSweepService(store, 0, zap.NewNop())

	summary, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DeletedGenerated)
	assert.Equal(t, 1, summary.DeletedCustom)

	// immediate re-run deletes nothing further
	summary, err = s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.DeletedGenerated)
	assert.Equal(t, 0, summary.DeletedCustom)

	_, err = store.Lookup(ctx, "fresh1")
	assert.NoError(t, err)
}

// A record that was never clicked inherits its creation time as activity
// time: it survives inside the window and expires after it.
func TestSweepNeverClickedPolicy(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, repository.Generated, &repository.Record{
		Code: "abc123", DestinationURL: "https://example.com",
	}))

	s := NewSweepService(store, time.Hour, zap.NewNop())

	summary, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.DeletedGenerated, "fresh never-clicked record must survive")

	short := NewSweepService(store, time.Nanosecond, zap.NewNop())
	time.Sleep(2 * time.Nanosecond)
	summary, err = short.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DeletedGenerated, "aged never-clicked record expires by creation age")
}
