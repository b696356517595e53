package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"climate-feed/internal/config"
	"climate-feed/internal/models"
	"climate-feed/internal/readers"
	"climate-feed/internal/repository"
	"climate-feed/internal/services"
	"climate-feed/pkg/database"
	"climate-feed/pkg/logging"
	"climate-feed/pkg/metrics"
)

func main() {
	dataDir := flag.String("data-dir", "./station_data", "Directory containing station data files")
	format := flag.String("format", "", "Force an input format (dailyseries, fixeddaily, jsonexport); empty guesses per file")
	thresholdsFile := flag.String("thresholds", "", "Threshold table for the range check (overrides configuration)")
	limitsFile := flag.String("limits", "", "Limiting-parameter table for the consistency check (overrides configuration)")
	dryRun := flag.Bool("dry-run", false, "Compute everything but skip persistence")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("climate-aggregator", "1.0.0", logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[AGGREGATOR_START] Starting climate aggregation run", logging.Fields{
		"version":  "1.0.0",
		"data_dir": *dataDir,
		"format":   *format,
		"dry_run":  *dryRun,
		"workers":  cfg.Pipeline.Workers,
	})

	metricsCollector := metrics.NewCollector("climate_aggregator")

	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}

	db, err := database.NewPostgresDB(dbConfig, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[AGGREGATOR_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	archiveRepo := repository.NewArchiveRepository(db, logger, metricsCollector)

	thresholds, limits, err := loadTables(*thresholdsFile, *limitsFile, cfg)
	if err != nil {
		logger.Fatal(ctx, "[AGGREGATOR_ERROR] Failed to load check tables", logging.Fields{}, err)
	}

	pipeline := services.NewPipelineService(archiveRepo, logger, metricsCollector, thresholds, limits, cfg.Pipeline.Workers)

	paths, err := collectFiles(*dataDir)
	if err != nil {
		logger.Fatal(ctx, "[AGGREGATOR_ERROR] Failed to list input files", logging.Fields{
			"data_dir": *dataDir,
		}, err)
	}

	result, err := pipeline.Run(ctx, paths, services.RunOptions{
		Format: *format,
		DryRun: *dryRun,
	})
	if err != nil {
		logger.Fatal(ctx, "[AGGREGATOR_ERROR] Pipeline run failed", logging.Fields{}, err)
	}

	printReport(result)

	logger.Info(ctx, "[AGGREGATOR_COMPLETE] Aggregation run completed", logging.Fields{
		"run_id":             result.RunID,
		"stations":           result.Stations,
		"records_read":       result.RecordsRead,
		"findings":           len(result.Findings),
		"aggregated_records": result.AggregatedRecords,
		"duration_seconds":   result.Duration.Seconds(),
	})
}

// loadTables resolves the check tables from flags or configuration.
// A missing table disables its check, matching the semantics of an
// empty table.
func loadTables(thresholdsFile, limitsFile string, cfg *config.Config) (models.ThresholdTable, models.LimitingParams, error) {
	if thresholdsFile == "" {
		thresholdsFile = cfg.Pipeline.ThresholdsFile
	}
	if limitsFile == "" {
		limitsFile = cfg.Pipeline.LimitsFile
	}

	thresholds := models.ThresholdTable{}
	if thresholdsFile != "" {
		var err error
		thresholds, err = readers.LoadThresholds(thresholdsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("thresholds: %w", err)
		}
	}

	limits := models.LimitingParams{}
	if limitsFile != "" {
		var err error
		limits, err = readers.LoadLimitingParams(limitsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("limiting parameters: %w", err)
		}
	}

	return thresholds, limits, nil
}

// collectFiles lists the regular files of the data directory.
func collectFiles(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dataDir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no data files found in %s", dataDir)
	}
	return paths, nil
}

func printReport(result *services.RunResult) {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("AGGREGATION COMPLETE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Run ID:             %s\n", result.RunID)
	fmt.Printf("Files:              %d\n", result.Files)
	fmt.Printf("Stations:           %d\n", result.Stations)
	fmt.Printf("Records Read:       %d\n", result.RecordsRead)
	fmt.Printf("Invalid Rows:       %d\n", result.InvalidRows)
	fmt.Printf("Aggregated Records: %d\n", result.AggregatedRecords)
	fmt.Printf("Duration:           %v\n", result.Duration)

	if len(result.Findings) > 0 {
		fmt.Printf("\nQuality findings (%d):\n", len(result.Findings))
		for i, finding := range result.Findings {
			if i >= 20 {
				fmt.Printf("  ... and %d more findings\n", len(result.Findings)-20)
				break
			}
			fmt.Printf("  - %s\n", finding)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(result.Errors))
		for i, errMsg := range result.Errors {
			if i >= 10 {
				fmt.Printf("  ... and %d more errors\n", len(result.Errors)-10)
				break
			}
			fmt.Printf("  - %s\n", errMsg)
		}
	}
}
