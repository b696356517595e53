package services

import (
	"context"

	"climate-feed/internal/models"
	"climate-feed/internal/repository"
	"climate-feed/pkg/logging"
	"climate-feed/pkg/metrics"
)

// ArchiveService handles read access to the aggregated archive for
// the API layer.
type ArchiveService struct {
	repo    repository.ArchiveRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewArchiveService creates a new archive service
func NewArchiveService(repo repository.ArchiveRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *ArchiveService {
	return &ArchiveService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// GetStations retrieves registered stations
func (s *ArchiveService) GetStations(ctx context.Context, limit, offset int) ([]*models.Station, error) {
	return s.repo.ListStations(ctx, limit, offset)
}

// GetStation retrieves one station
func (s *ArchiveService) GetStation(ctx context.Context, stationID string) (*models.Station, error) {
	return s.repo.GetStation(ctx, stationID)
}

// GetAggregates retrieves aggregated records with filtering
func (s *ArchiveService) GetAggregates(ctx context.Context, filter repository.AggregateFilter) ([]*models.AggregatedRecord, int, error) {
	return s.repo.GetAggregates(ctx, filter)
}

// HealthCheck reports archive availability
func (s *ArchiveService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}
