package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"climate-feed/internal/models"
	"climate-feed/pkg/database"
	"climate-feed/pkg/logging"
	"climate-feed/pkg/metrics"
)

// ArchiveRepository provides data access for stations and aggregated
// climate records.
type ArchiveRepository interface {
	// Station operations
	UpsertStation(ctx context.Context, station *models.Station) error
	GetStation(ctx context.Context, stationID string) (*models.Station, error)
	ListStations(ctx context.Context, limit, offset int) ([]*models.Station, error)

	// Aggregated record operations
	UpsertAggregates(ctx context.Context, records []models.AggregatedRecord) error
	GetAggregates(ctx context.Context, filter AggregateFilter) ([]*models.AggregatedRecord, int, error)
	GetAggregate(ctx context.Context, stationID string, periodDate time.Time, level models.AggregationLevel) (*models.AggregatedRecord, error)

	// Utility operations
	HealthCheck(ctx context.Context) error
}

// AggregateFilter defines filters for querying aggregated records
type AggregateFilter struct {
	StationID *string
	Level     *models.AggregationLevel
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// archiveRepository implements ArchiveRepository
type archiveRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewArchiveRepository creates a new archive repository
func NewArchiveRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) ArchiveRepository {
	return &archiveRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// UpsertStation creates a station or refreshes its registry fields
func (r *archiveRepository) UpsertStation(ctx context.Context, station *models.Station) error {
	query := `
		INSERT INTO stations (station_id, name, network, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (station_id) DO UPDATE SET
			name = EXCLUDED.name,
			network = EXCLUDED.network,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, "upsert_station", query,
		station.ID,
		station.Name,
		station.Network,
		station.Latitude,
		station.Longitude,
		station.CreatedAt,
		station.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert station: %w", err)
	}

	r.logger.Debug(ctx, "[REPO_UPSERT_STATION] Station stored", logging.Fields{
		"station_id": station.ID,
		"network":    station.Network,
	})

	return nil
}

// GetStation retrieves a station by ID
func (r *archiveRepository) GetStation(ctx context.Context, stationID string) (*models.Station, error) {
	query := `
		SELECT station_id, name, network, latitude, longitude, created_at, updated_at
		FROM stations
		WHERE station_id = $1
	`

	var station models.Station
	err := r.db.GetContext(ctx, "get_station", &station, query, stationID)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{
			Resource: "station",
			ID:       stationID,
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get station: %w", err)
	}

	return &station, nil
}

// ListStations retrieves all stations with pagination
func (r *archiveRepository) ListStations(ctx context.Context, limit, offset int) ([]*models.Station, error) {
	query := `
		SELECT station_id, name, network, latitude, longitude, created_at, updated_at
		FROM stations
		ORDER BY station_id
		LIMIT $1 OFFSET $2
	`

	var stations []*models.Station
	err := r.db.SelectContext(ctx, "list_stations", &stations, query, limit, offset)

	if err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}

	return stations, nil
}

// UpsertAggregates stores a batch of aggregated records in a single
// transaction. A conflicting record is replaced whole: values computed
// by a previous run do not survive a recomputation of the same period.
func (r *archiveRepository) UpsertAggregates(ctx context.Context, records []models.AggregatedRecord) error {
	if len(records) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		duration := time.Since(timer)
		r.logger.Debug(ctx, "[REPO_UPSERT_AGGREGATES] Batch upsert completed", logging.Fields{
			"count":       len(records),
			"duration_ms": duration.Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO aggregated_records (station_id, period_date, aggregation_level, fields, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (station_id, period_date, aggregation_level) DO UPDATE SET
			fields = EXCLUDED.fields,
			updated_at = EXCLUDED.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.StationID,
			rec.PeriodDate,
			int(rec.Level),
			rec.Fields,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert aggregated record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, rec := range records {
		r.metrics.AggregatedRecordsTotal.WithLabelValues(rec.Level.String()).Inc()
	}

	return nil
}

// GetAggregates retrieves aggregated records with filtering and pagination
func (r *archiveRepository) GetAggregates(ctx context.Context, filter AggregateFilter) ([]*models.AggregatedRecord, int, error) {
	query := `
		SELECT station_id, period_date, aggregation_level, fields
		FROM aggregated_records
		WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.StationID != nil {
		query += fmt.Sprintf(" AND station_id = $%d", argNum)
		args = append(args, *filter.StationID)
		argNum++
	}

	if filter.Level != nil {
		query += fmt.Sprintf(" AND aggregation_level = $%d", argNum)
		args = append(args, int(*filter.Level))
		argNum++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND period_date >= $%d", argNum)
		args = append(args, *filter.StartDate)
		argNum++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND period_date <= $%d", argNum)
		args = append(args, *filter.EndDate)
		argNum++
	}

	// Get total count
	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS count_query"
	var totalCount int
	err := r.db.GetContext(ctx, "count_aggregates", &totalCount, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count aggregated records: %w", err)
	}

	// Add ordering and pagination
	query += " ORDER BY period_date DESC, station_id, aggregation_level"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var records []*models.AggregatedRecord
	err = r.db.SelectContext(ctx, "get_aggregates", &records, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get aggregated records: %w", err)
	}

	return records, totalCount, nil
}

// GetAggregate retrieves a single aggregated record by its period key
func (r *archiveRepository) GetAggregate(ctx context.Context, stationID string, periodDate time.Time, level models.AggregationLevel) (*models.AggregatedRecord, error) {
	query := `
		SELECT station_id, period_date, aggregation_level, fields
		FROM aggregated_records
		WHERE station_id = $1 AND period_date = $2 AND aggregation_level = $3
	`

	var rec models.AggregatedRecord
	err := r.db.GetContext(ctx, "get_aggregate", &rec, query, stationID, periodDate, int(level))

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{
			Resource: "aggregated_record",
			ID:       fmt.Sprintf("%s:%s:%s", stationID, periodDate.Format("2006-01-02"), level),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get aggregated record: %w", err)
	}

	return &rec, nil
}

// HealthCheck performs a repository health check
func (r *archiveRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
