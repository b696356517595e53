package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"

	"climate-feed/internal/config"
	"climate-feed/pkg/database"
	"climate-feed/pkg/logging"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	dir := flag.String("dir", "migrations", "Directory containing migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("climate-migrate", "1.0.0", logging.ParseLevel(cfg.Logging.Level))
	ctx := context.Background()

	if *direction != "up" && *direction != "down" {
		logger.Fatal(ctx, "[MIGRATE_ERROR] Unknown direction", logging.Fields{
			"direction": *direction,
		}, fmt.Errorf("direction must be up or down"))
	}

	files, err := migrationFiles(*dir, *direction)
	if err != nil {
		logger.Fatal(ctx, "[MIGRATE_ERROR] Failed to list migration files", logging.Fields{
			"dir": *dir,
		}, err)
	}

	dbCfg := &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		logger.Fatal(ctx, "[MIGRATE_ERROR] Failed to open database", logging.Fields{}, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal(ctx, "[MIGRATE_ERROR] Failed to ping database", logging.Fields{
			"host":     cfg.Database.Host,
			"database": cfg.Database.Database,
		}, err)
	}

	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Fatal(ctx, "[MIGRATE_ERROR] Failed to read migration", logging.Fields{
				"file": path,
			}, err)
		}

		logger.Info(ctx, "[MIGRATE_APPLY] Applying migration", logging.Fields{
			"file":      path,
			"direction": *direction,
		})

		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			logger.Fatal(ctx, "[MIGRATE_ERROR] Migration failed", logging.Fields{
				"file": path,
			}, err)
		}
	}

	logger.Info(ctx, "[MIGRATE_COMPLETE] Migrations applied", logging.Fields{
		"direction": *direction,
		"files":     len(files),
	})
}

// migrationFiles lists the *.up.sql or *.down.sql files of dir in
// lexical order. Down migrations run in reverse so later schema
// changes unwind first.
func migrationFiles(dir, direction string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	suffix := "." + direction + ".sql"
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s migrations found in %s", direction, dir)
	}

	sort.Strings(files)
	if direction == "down" {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}
	return files, nil
}
