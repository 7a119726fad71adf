package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLookupPrecedence(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, Generated, &Record{Code: "aB3xQ9", DestinationURL: "https://generated.example.com"}))
	require.NoError(t, s.UpsertCustom(ctx, "owner-1", &Record{Code: "aB3xQ9", DestinationURL: "https://custom.example.com"}))

	rec, err := s.Lookup(ctx, "aB3xQ9")
	require.NoError(t, err)
	assert.Equal(t, Custom, rec.Collection)
	assert.Equal(t, "https://custom.example.com", rec.DestinationURL)
}

func TestMemoryStoreLookupCaseInsensitive(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, Generated, &Record{Code: "aB3xQ9", DestinationURL: "https://example.com"}))

	rec, err := s.Lookup(ctx, "AB3XQ9")
	require.NoError(t, err)
	assert.Equal(t, "aB3xQ9", rec.Code)

	_, err = s.Lookup(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreInsertDuplicate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, Generated, &Record{Code: "abc123", DestinationURL: "https://example.com"}))
	err := s.Insert(ctx, Generated, &Record{Code: "ABC123", DestinationURL: "https://other.example.com"})
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

// N concurrent clicks on the same code must end at exactly N: the store-side
// increment never loses updates.
func TestMemoryStoreRecordClickConcurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, Generated, &Record{Code: "abc123", DestinationURL: "https://example.com"}))

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, s.RecordClick(ctx, Generated, "abc123"))
		}()
	}
	wg.Wait()

	rec, err := s.Lookup(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(n), rec.ClickCount)
}

func TestMemoryStoreUpsertCustom(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.UpsertCustom(ctx, "owner-1", &Record{Code: "ab12", DestinationURL: "https://first.example.com"}))

	// same owner, new code and destination: update in place
	require.NoError(t, s.UpsertCustom(ctx, "owner-1", &Record{Code: "cd34", DestinationURL: "https://second.example.com"}))

	_, err := s.Lookup(ctx, "ab12")
	assert.ErrorIs(t, err, ErrNotFound, "old code must be released")

	rec, err := s.Lookup(ctx, "cd34")
	require.NoError(t, err)
	assert.Equal(t, "https://second.example.com", rec.DestinationURL)

	// another owner cannot take the code
	err = s.UpsertCustom(ctx, "owner-2", &Record{Code: "cd34", DestinationURL: "https://steal.example.com"})
	assert.ErrorIs(t, err, ErrCodeInUse)
}

func TestMemoryStoreUpsertKeepsClickCount(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.UpsertCustom(ctx, "owner-1", &Record{Code: "ab12", DestinationURL: "https://example.com"}))
	require.NoError(t, s.RecordClick(ctx, Custom, "ab12"))
	require.NoError(t, s.RecordClick(ctx, Custom, "ab12"))

	require.NoError(t, s.UpsertCustom(ctx, "owner-1", &Record{Code: "ab12", DestinationURL: "https://new.example.com"}))

	rec, err := s.Lookup(ctx, "ab12")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.ClickCount)
}

func TestMemoryStoreSweepIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, s.Insert(ctx, Generated, &Record{Code: "stale1", DestinationURL: "https://a.example.com", LastClickedAt: old}))
	require.NoError(t, s.Insert(ctx, Generated, &Record{Code: "fresh1", DestinationURL: "https://b.example.com", LastClickedAt: time.Now()}))
	require.NoError(t, s.UpsertCustom(ctx, "owner-1", &Record{Code: "ab12", DestinationURL: "https://c.example.com"}))

	cutoff := time.Now().Add(-time.Hour)
	result, err := s.SweepExpired(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, []string{"stale1"}, result.Generated)
	assert.Empty(t, result.Custom)

	// second pass with the same cutoff removes nothing
	result, err = s.SweepExpired(ctx, cutoff)
	require.NoError(t, err)
	assert.Empty(t, result.Generated)
	assert.Empty(t, result.Custom)

	_, err = s.Lookup(ctx, "fresh1")
	assert.NoError(t, err)
}

func TestMemoryStoreListGenerated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Now()
	for i, code := range []string{"aaaa11", "bbbb22", "cccc33"} {
		require.NoError(t, s.Insert(ctx, Generated, &Record{
			Code:           code,
			DestinationURL: "https://example.com",
			OwnerID:        "owner-1",
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, s.Insert(ctx, Generated, &Record{Code: "dddd44", DestinationURL: "https://example.com", OwnerID: "owner-2"}))

	records, total, err := s.ListGenerated(ctx, "owner-1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, records, 2)
	assert.Equal(t, "cccc33", records[0].Code, "newest first")
}
