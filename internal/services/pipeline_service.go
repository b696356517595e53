package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"

	"climate-feed/internal/aggregate"
	"climate-feed/internal/checks"
	"climate-feed/internal/models"
	"climate-feed/internal/readers"
	"climate-feed/internal/repository"
	"climate-feed/pkg/logging"
	"climate-feed/pkg/metrics"
)

// PipelineService chains the full processing of station files: format
// reading, quality checks, daily series preparation, temporal
// aggregation and archive persistence. Stations are independent and
// fan out over a bounded worker pool.
type PipelineService struct {
	repo       repository.ArchiveRepository
	logger     *logging.StructuredLogger
	metrics    *metrics.Collector
	thresholds models.ThresholdTable
	limits     models.LimitingParams
	pool       pond.ResultPool[*StationResult]
}

// RunOptions tunes one pipeline run.
type RunOptions struct {
	// Format forces a reader by label; empty guesses per file.
	Format string
	// DryRun computes everything but skips persistence.
	DryRun bool
}

// RunResult reports one pipeline run.
type RunResult struct {
	RunID             string
	Files             int
	Stations          int
	RecordsRead       int
	Findings          []string
	InvalidRows       int
	AggregatedRecords int
	Duration          time.Duration
	Errors            []string
}

// StationResult is the per-station outcome collected by the workers.
type StationResult struct {
	StationID string
	Findings  []string
	Invalid   int
	Records   []models.AggregatedRecord
}

// NewPipelineService creates a pipeline service running up to workers
// stations concurrently.
func NewPipelineService(
	repo repository.ArchiveRepository,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
	thresholds models.ThresholdTable,
	limits models.LimitingParams,
	workers int,
) *PipelineService {
	if workers < 1 {
		workers = 1
	}
	return &PipelineService{
		repo:       repo,
		logger:     logger,
		metrics:    metricsCollector,
		thresholds: thresholds,
		limits:     limits,
		pool:       pond.NewResultPool[*StationResult](workers),
	}
}

// Run processes the given station files end to end and returns the
// run report. File-level failures are collected, not fatal; a station
// whose data violates a processing precondition aborts the run.
func (s *PipelineService) Run(ctx context.Context, paths []string, opts RunOptions) (*RunResult, error) {
	startTime := time.Now()
	runID := uuid.NewString()
	ctx = context.WithValue(ctx, logging.RunIDKey, runID)

	result := &RunResult{RunID: runID, Files: len(paths)}

	s.logger.Info(ctx, "[PIPELINE_START] Starting pipeline run", logging.Fields{
		"files":  len(paths),
		"format": opts.Format,
		"stage":  "INITIALIZATION",
	})

	byStation, stations, err := s.readFiles(ctx, paths, opts.Format, result)
	if err != nil {
		return nil, err
	}
	result.Stations = len(byStation)

	stationIDs := make([]string, 0, len(byStation))
	for id := range byStation {
		stationIDs = append(stationIDs, id)
	}
	sort.Strings(stationIDs)

	group := s.pool.NewGroupContext(ctx)
	for _, stationID := range stationIDs {
		stationID := stationID
		station := stations[stationID]
		rows := byStation[stationID]
		group.SubmitErr(func() (*StationResult, error) {
			return s.processStation(ctx, station, rows)
		})
	}

	s.metrics.PipelineStationsActive.Set(float64(len(stationIDs)))
	defer s.metrics.PipelineStationsActive.Set(0)

	stationResults, err := group.Wait()
	if err != nil {
		s.metrics.RecordPipelineError("station_error")
		return nil, fmt.Errorf("pipeline run %s failed: %w", runID, err)
	}

	assembler := aggregate.NewAssembler()
	for _, sr := range stationResults {
		result.Findings = append(result.Findings, sr.Findings...)
		result.InvalidRows += sr.Invalid
		assembler.Merge(sr.Records...)
	}
	records := assembler.Records()
	result.AggregatedRecords = len(records)
	s.countLowCoverage(records)

	if !opts.DryRun {
		for _, stationID := range stationIDs {
			station := stations[stationID]
			if err := s.repo.UpsertStation(ctx, &station); err != nil {
				return nil, fmt.Errorf("failed to store station %s: %w", stationID, err)
			}
		}
		if err := s.repo.UpsertAggregates(ctx, records); err != nil {
			s.metrics.RecordPipelineError("persistence_error")
			return nil, fmt.Errorf("failed to store aggregated records: %w", err)
		}
	}

	result.Duration = time.Since(startTime)
	s.metrics.PipelineDuration.Observe(result.Duration.Seconds())

	s.logger.Info(ctx, "[PIPELINE_COMPLETE] Pipeline run completed", logging.Fields{
		"files":              result.Files,
		"stations":           result.Stations,
		"records_read":       result.RecordsRead,
		"findings":           len(result.Findings),
		"invalid_rows":       result.InvalidRows,
		"aggregated_records": result.AggregatedRecords,
		"duration_seconds":   result.Duration.Seconds(),
		"error_count":        len(result.Errors),
		"dry_run":            opts.DryRun,
		"stage":              "COMPLETE",
	})

	return result, nil
}

// readFiles parses every input file and groups the canonical records
// by station, keeping each station's rows in file order.
func (s *PipelineService) readFiles(ctx context.Context, paths []string, format string, result *RunResult) (map[string][]models.Measurement, map[string]models.Station, error) {
	byStation := make(map[string][]models.Measurement)
	stations := make(map[string]models.Station)

	for _, path := range paths {
		reader, err := s.pickReader(path, format)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			s.metrics.RecordPipelineError("format_error")
			continue
		}

		rows, err := reader.Read(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to read %s: %v", path, err))
			s.logger.Error(ctx, "[PIPELINE_READ_ERROR] File read failed", logging.Fields{
				"path":   path,
				"format": reader.Label(),
				"stage":  "FILE_READING",
			}, err)
			s.metrics.RecordPipelineError("read_error")
			continue
		}

		result.RecordsRead += len(rows)
		for _, m := range rows {
			byStation[m.Station.ID] = append(byStation[m.Station.ID], m)
			if _, ok := stations[m.Station.ID]; !ok {
				st := m.Station
				now := time.Now().UTC()
				st.CreatedAt = now
				st.UpdatedAt = now
				stations[m.Station.ID] = st
			}
		}

		s.logger.Info(ctx, "[PIPELINE_FILE] File parsed", logging.Fields{
			"path":    path,
			"format":  reader.Label(),
			"records": len(rows),
			"stage":   "FILE_READING",
		})
	}

	if len(byStation) == 0 {
		return nil, nil, fmt.Errorf("no readable station data in %d input files", len(paths))
	}
	return byStation, stations, nil
}

func (s *PipelineService) pickReader(path, format string) (readers.RecordReader, error) {
	if format != "" {
		return readers.ByLabel(format)
	}
	return readers.Guess(path)
}

// processStation runs one station's rows through the checks, the
// daily preparation and the aggregation engine.
func (s *PipelineService) processStation(ctx context.Context, station models.Station, rows []models.Measurement) (*StationResult, error) {
	ctx = context.WithValue(ctx, logging.StationIDKey, station.ID)

	findings, checked, err := s.runChecks(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("station %s: %w", station.ID, err)
	}

	invalid := 0
	for _, m := range checked {
		if !m.Valid {
			invalid++
		}
	}

	assembler := aggregate.NewAssembler()
	for _, series := range BuildDailySeries(station, checked) {
		for _, fn := range series.Funcs {
			timer := s.metrics.NewTimer(s.metrics.AggregationDuration.WithLabelValues(fn.Name))
			records, err := aggregate.ComputeDMA(series.Records, []aggregate.Func{fn})
			timer.ObserveDuration()
			if err != nil {
				return nil, fmt.Errorf("station %s: %s: %w", station.ID, fn.Name, err)
			}
			assembler.Merge(records...)
		}
	}

	records := assembler.Records()
	s.logger.Info(ctx, "[PIPELINE_STATION] Station processed", logging.Fields{
		"rows":               len(rows),
		"findings":           len(findings),
		"invalid_rows":       invalid,
		"aggregated_records": len(records),
		"stage":              "STATION_PROCESSING",
	})

	return &StationResult{
		StationID: station.ID,
		Findings:  findings,
		Invalid:   invalid,
		Records:   records,
	}, nil
}

// runChecks applies the range and consistency checks and records
// their outcome in the metrics.
func (s *PipelineService) runChecks(ctx context.Context, rows []models.Measurement) ([]string, []models.Measurement, error) {
	findings, checked, err := checks.CheckSeries(rows, s.thresholds, s.limits)
	if err != nil {
		return nil, nil, err
	}
	s.metrics.CheckedRowsTotal.Add(float64(len(rows)))
	s.metrics.PipelineRecordsTotal.Add(float64(len(rows)))
	s.metrics.RecordCheckFindings("quality", len(findings))
	return findings, checked, nil
}

// countLowCoverage counts the summaries whose coverage flag came out
// negative across the assembled records.
func (s *PipelineService) countLowCoverage(records []models.AggregatedRecord) {
	low := 0
	for _, rec := range records {
		for name, v := range rec.Fields {
			if strings.HasSuffix(name, ".wht") && v == 0 {
				low++
			}
		}
	}
	if low > 0 {
		s.metrics.LowCoveragePeriodsTotal.Add(float64(low))
	}
}
