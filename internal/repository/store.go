// Package repository implements the resolution store: two logical record
// collections (generated and custom codes) behind one lookup/update contract.
package repository

import (
	"context"
	"errors"
	"time"
)

// Collection tags which logical collection a record belongs to.
type Collection string

const (
	Generated Collection = "generated"
	Custom    Collection = "custom"
)

// Store-level failures. Handlers never see these directly; the service layer
// maps them onto the user-facing taxonomy.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateCode = errors.New("duplicate code")
	ErrCodeInUse     = errors.New("code in use by another owner")
)

// Record is the collection-agnostic view of a stored link. Lookup returns it
// tagged with its source collection so precedence stays an explicit policy
// instead of incidental query order.
type Record struct {
	Collection     Collection
	Code           string
	DestinationURL string
	OwnerID        string
	Title          string
	ClickCount     int64
	CreatedAt      time.Time
	LastClickedAt  time.Time
}

// SweepResult reports what one sweep removed from each collection.
type SweepResult struct {
	Generated []string
	Custom    []string
}

// Store is the resolution store contract. Lookups are case-insensitive on
// code. RecordClick must be an atomic storage-side increment; a caller-side
// read-then-write loses updates under concurrency.
type Store interface {
	// Lookup resolves a code with custom-first precedence across both
	// collections. Returns ErrNotFound on a miss.
	Lookup(ctx context.Context, code string) (*Record, error)

	// RecordClick increments the click counter by one and stamps the last
	// click time. Safe under concurrent invocation for the same code.
	RecordClick(ctx context.Context, collection Collection, code string) error

	// Exists reports whether a code is present in the given collection.
	Exists(ctx context.Context, collection Collection, code string) (bool, error)

	// Insert adds a record, returning ErrDuplicateCode when the unique
	// constraint on code loses a race.
	Insert(ctx context.Context, collection Collection, rec *Record) error

	// UpsertCustom replaces the single custom record owned by ownerID, or
	// returns ErrCodeInUse when the target code belongs to someone else.
	UpsertCustom(ctx context.Context, ownerID string, rec *Record) error

	// DeleteCustom removes the custom record owned by ownerID, if any.
	DeleteCustom(ctx context.Context, ownerID string) error

	// SweepExpired deletes every record in either collection whose last
	// click precedes cutoff, returning the removed codes for audit logging.
	SweepExpired(ctx context.Context, cutoff time.Time) (*SweepResult, error)

	// ListGenerated pages through one owner's generated links, newest
	// first, returning the page and the total count.
	ListGenerated(ctx context.Context, ownerID string, limit, offset int) ([]*Record, int64, error)
}
