package service

import (
	"context"
	"time"

	"shorturl-go/internal/dto"
	"shorturl-go/internal/repository"

	"go.uber.org/zap"
)

// SweepService retires links unused beyond the retention window. Records
// that were never clicked carry their creation time as activity time, so
// they expire one retention window after creation.
type SweepService struct {
	store     repository.Store
	retention time.Duration
	logger    *zap.Logger
}

// NewSweepService builds a sweeper. retention <= 0 selects the default
// one-month window.
func NewSweepService(store repository.Store, retention time.Duration, logger *zap.Logger) *SweepService {
	return &SweepService{
		store:     store,
		retention: retention,
		logger:    logger,
	}
}

func (s *SweepService) cutoff(now time.Time) time.Time {
	if s.retention > 0 {
		return now.Add(-s.retention)
	}
	return now.AddDate(0, -1, 0)
}

// Sweep deletes expired records from both collections and reports the
// counts. Re-running with no intervening activity deletes nothing further.
func (s *SweepService) Sweep(ctx context.Context) (*dto.SweepResponse, error) {
	cutoff := s.cutoff(time.Now())

	result, err := s.store.SweepExpired(ctx, cutoff)
	if err != nil {
		s.logger.Error("expiration sweep failed", zap.Time("cutoff", cutoff), zap.Error(err))
		return nil, err
	}

	if len(result.Generated) > 0 || len(result.Custom) > 0 {
		s.logger.Info("expiration sweep removed records",
			zap.Time("cutoff", cutoff),
			zap.Strings("generated", result.Generated),
			zap.Strings("custom", result.Custom),
		)
	}

	return &dto.SweepResponse{
		DeletedGenerated: len(result.Generated),
		DeletedCustom:    len(result.Custom),
	}, nil
}
