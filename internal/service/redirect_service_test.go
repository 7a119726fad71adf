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

func TestResolveGenerated(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, repository.Generated, &repository.Record{
		Code:           "aB3xQ9",
		DestinationURL: "https://example.com/page",
	}))

	s := NewRedirectService(store, zap.NewNop())

	decision, err := s.Resolve(ctx, "aB3xQ9")
	require.NoError(t, err)
	assert.True(t, decision.Found)
	assert.Equal(t, "https://example.com/page", decision.URL)
}

// Custom codes shadow generated ones carrying the same value.
func TestResolveCustomFirst(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, repository.Generated, &repository.Record{
		Code:           "aB3xQ9",
		DestinationURL: "https://generated.example.com",
	}))
	require.NoError(t, store.UpsertCustom(ctx, "owner-1", &repository.Record{
		Code:           "aB3xQ9",
		DestinationURL: "https://custom.example.com",
	}))

	s := NewRedirectService(store, zap.NewNop())

	decision, err := s.Resolve(ctx, "aB3xQ9")
	require.NoError(t, err)
	assert.Equal(t, "https://custom.example.com", decision.URL)
}

func TestResolveSentinelsRejected(t *testing.T) {
	store := repository.NewMemoryStore()
	s := NewRedirectService(store, zap.NewNop())

	for _, code := range []string{"not-found", "_not-found"} {
		decision, err := s.Resolve(context.Background(), code)
		require.NoError(t, err)
		assert.False(t, decision.Found, "code %q", code)
	}
}

func TestResolveMissIsNotAnError(t *testing.T) {
	store := repository.NewMemoryStore()
	s := NewRedirectService(store, zap.NewNop())

	decision, err := s.Resolve(context.Background(), "gone42")
	require.NoError(t, err)
	assert.False(t, decision.Found)
}

// A scheme-less stored destination still redirects, scheme prepended.
func TestResolveNormalizesDestination(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, repository.Generated, &repository.Record{
		Code:           "abc123",
		DestinationURL: "example.com/path",
	}))

	s := NewRedirectService(store, zap.NewNop())

	decision, err := s.Resolve(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path", decision.URL)
}

func TestResolveRecordsClick(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, repository.Generated, &repository.Record{
		Code:           "abc123",
		DestinationURL: "https://example.com",
	}))

	s := NewRedirectService(store, zap.NewNop())

	_, err := s.Resolve(ctx, "abc123")
	require.NoError(t, err)

	// accounting is fire-and-forget, so poll
	assert.Eventually(t, func() bool {
		rec, err := store.Lookup(ctx, "abc123")
		return err == nil && rec.ClickCount == 1
	}, time.Second, 10*time.Millisecond)
}

func TestNormalizeDestination(t *testing.T) {
	assert.Equal(t, "https://example.com", NormalizeDestination("example.com"))
	assert.Equal(t, "http://example.com", NormalizeDestination("http://example.com"))
	assert.Equal(t, "https://example.com", NormalizeDestination("https://example.com"))
	// even unparseable input is served with a scheme
	assert.Equal(t, "https://%%bad", NormalizeDestination("%%bad"))
}
