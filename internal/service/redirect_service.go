package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"shorturl-go/internal/classify"
	"shorturl-go/internal/repository"

	"go.uber.org/zap"
)

// RedirectDecision is the outcome of resolving one short-code candidate.
type RedirectDecision struct {
	Found bool
	URL   string
}

// RedirectService resolves a code to a redirect decision: custom collection
// first, then generated, with best-effort click accounting.
type RedirectService struct {
	store        repository.Store
	logger       *zap.Logger
	clickTimeout time.Duration
}

func NewRedirectService(store repository.Store, logger *zap.Logger) *RedirectService {
	return &RedirectService{
		store:        store,
		logger:       logger,
		clickTimeout: 3 * time.Second,
	}
}

// Resolve looks a code up across both collections. A miss is a normal
// outcome and is never logged as an error; only a store fault returns one.
func (s *RedirectService) Resolve(ctx context.Context, code string) (RedirectDecision, error) {
	if code == classify.NotFoundSentinel || code == classify.InternalNotFoundSentinel {
		return RedirectDecision{}, nil
	}

	rec, err := s.store.Lookup(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return RedirectDecision{}, nil
	}
	if err != nil {
		return RedirectDecision{}, err
	}

	// Click accounting is advisory: it runs detached from the request and a
	// failure never holds up the redirect.
	collection, recordCode := rec.Collection, rec.Code
	go func() {
		clickCtx, cancel := context.WithTimeout(context.Background(), s.clickTimeout)
		defer cancel()
		if err := s.store.RecordClick(clickCtx, collection, recordCode); err != nil {
			s.logger.Warn("click accounting failed",
				zap.String("code", recordCode),
				zap.String("collection", string(collection)),
				zap.Error(err))
		}
	}()

	return RedirectDecision{Found: true, URL: NormalizeDestination(rec.DestinationURL)}, nil
}

// NormalizeDestination guarantees an explicit scheme on the redirect target.
// Validation never blocks a redirect: even when the result does not parse as
// an absolute URL, the scheme-prepended string is still served.
func NormalizeDestination(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}
