package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mcpdemo/internal/logging"
	"mcpdemo/internal/migrations"
	"mcpdemo/internal/storage"
	"mcpdemo/internal/storage/sqlite"
)

const usage = "Usage: migrate [up|down|status|version] [world|community ...]"

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	logger, err := logging.New(getEnv("LOG_LEVEL", "info"), logging.FormatConsole)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	// Get command from arguments (default to "up")
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	stores := []string{storage.World, storage.Community}
	if len(os.Args) > 2 {
		stores = os.Args[2:]
	}

	dataDir := getEnv("DATA_DIR", "./db")
	if err := run(context.Background(), logger, dataDir, command, stores); err != nil {
		logger.Fatal("Migration failed", zap.String("command", command), zap.Error(err))
	}
}

// run applies command to each store under dataDir, creating missing files
func run(ctx context.Context, logger *zap.Logger, dataDir, command string, stores []string) error {
	switch command {
	case "up", "down", "status", "version":
	default:
		return fmt.Errorf("unknown command %q. %s", command, usage)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	provider := sqlite.NewProvider(dataDir, sqlite.WithReadWrite())

	for _, store := range stores {
		if err := migrateStore(ctx, logger.With(zap.String("store", store)), provider, store, command); err != nil {
			return err
		}
	}
	return nil
}

func migrateStore(ctx context.Context, logger *zap.Logger, provider *sqlite.Provider, store, command string) error {
	db, err := provider.Open(ctx, store)
	if err != nil {
		return err
	}
	defer db.Close()

	migrator, err := migrations.NewProvider(db.DB, store)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		results, err := migrator.Up(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", store, err)
		}
		for _, r := range results {
			logger.Info("Applied migration",
				zap.Int64("version", r.Source.Version),
				zap.Duration("duration", r.Duration),
			)
		}
		logger.Info("Migrations completed successfully", zap.Int("applied", len(results)))

	case "down":
		result, err := migrator.Down(ctx)
		if err != nil {
			return fmt.Errorf("failed to rollback %s migration: %w", store, err)
		}
		logger.Info("Rollback completed successfully", zap.Int64("version", result.Source.Version))

	case "status":
		statuses, err := migrator.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to get %s migration status: %w", store, err)
		}
		for _, s := range statuses {
			logger.Info("Migration status",
				zap.Int64("version", s.Source.Version),
				zap.String("state", string(s.State)),
				zap.Time("applied_at", s.AppliedAt),
			)
		}

	case "version":
		version, err := migrator.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to get %s version: %w", store, err)
		}
		logger.Info("Current migration version", zap.Int64("version", version))
	}
	return nil
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
