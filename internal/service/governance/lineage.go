package governance

import (
	"context"
	"log/slog"
	"time"

	"clingov/internal/domain"
	"clingov/internal/lineage"
)

// LineageService records pipeline lineage events and answers
// upstream/downstream reachability queries.
type LineageService struct {
	repo   domain.LineageEventRepository
	logger *slog.Logger
}

// NewLineageService creates a new LineageService.
func NewLineageService(repo domain.LineageEventRepository, logger *slog.Logger) *LineageService {
	return &LineageService{repo: repo, logger: logger}
}

// Record persists a finalized lineage event.
func (s *LineageService) Record(ctx context.Context, ev *domain.LineageEvent) error {
	if ev.EventID == "" {
		return domain.ErrValidation("lineage event requires an event_id")
	}
	if ev.EventType == "" {
		return domain.ErrValidation("lineage event requires an event_type")
	}
	if err := s.repo.Insert(ctx, ev); err != nil {
		return err
	}
	s.logger.Info("lineage event recorded",
		"event_id", ev.EventID,
		"event_type", string(ev.EventType),
		"inputs", len(ev.InputAssets),
		"outputs", len(ev.OutputAssets),
	)
	return nil
}

// Upstream returns every event that produced the location or,
// transitively, produced an input of such an event, up to maxDepth
// hops. maxDepth < 0 uses the default.
func (s *LineageService) Upstream(ctx context.Context, location string, maxDepth int) ([]domain.LineageEvent, error) {
	idx, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	if maxDepth < 0 {
		maxDepth = lineage.DefaultMaxDepth
	}
	return idx.Upstream(location, maxDepth), nil
}

// Downstream returns every event that consumed the location or,
// transitively, consumed an output of such an event, up to maxDepth
// hops. maxDepth < 0 uses the default.
func (s *LineageService) Downstream(ctx context.Context, location string, maxDepth int) ([]domain.LineageEvent, error) {
	idx, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	if maxDepth < 0 {
		maxDepth = lineage.DefaultMaxDepth
	}
	return idx.Downstream(location, maxDepth), nil
}

// index rebuilds the in-memory lineage index from the stored event log.
// The audit store is the source of truth; the index is a per-query view.
func (s *LineageService) index(ctx context.Context) (*lineage.Index, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return lineage.NewIndex(events), nil
}

// PurgeOlderThan removes lineage events older than the given number of
// days and returns the count removed.
func (s *LineageService) PurgeOlderThan(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays <= 0 {
		return 0, domain.ErrValidation("retention days must be positive, got %d", olderThanDays)
	}
	before := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	n, err := s.repo.PurgeOlderThan(ctx, before)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("purged lineage events", "removed", n, "older_than_days", olderThanDays)
	}
	return n, nil
}
