// Command mcpdemo-dev serves the community server against a throwaway
// ClickHouse container seeded with sample chatters.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"go.uber.org/zap"

	"mcpdemo/internal/app"
	"mcpdemo/internal/config"
	"mcpdemo/internal/logging"
	"mcpdemo/internal/models"
	"mcpdemo/internal/server"
	"mcpdemo/internal/storage/ch"
)

const devPassword = "devpassword"

var sampleChatters = []models.Chatter{
	{Name: "alice", Messages: 1542},
	{Name: "bob", Messages: 873},
	{Name: "charlie", Messages: 2210},
	{Name: "diana", Messages: 64},
	{Name: "eve", Messages: 391},
}

func main() {
	_ = godotenv.Load()

	logger, err := logging.New("debug", logging.FormatConsole)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Fatal("Application error", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger) error {
	logger.Info("Starting ClickHouse testcontainer...")

	clickhouseContainer, err := clickhouse.Run(ctx,
		"clickhouse/clickhouse-server:latest",
		clickhouse.WithUsername("default"),
		clickhouse.WithPassword(devPassword),
		clickhouse.WithDatabase("default"),
	)
	if err != nil {
		return fmt.Errorf("failed to start ClickHouse container: %w", err)
	}

	// Terminate with a fresh context: ctx is already cancelled on shutdown
	defer func() {
		logger.Info("Stopping ClickHouse container...")
		if err := clickhouseContainer.Terminate(context.Background()); err != nil {
			logger.Error("Failed to terminate container", zap.Error(err))
		}
	}()

	host, err := clickhouseContainer.Host(ctx)
	if err != nil {
		return fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	if err != nil {
		return fmt.Errorf("failed to get container port: %w", err)
	}

	logger.Info("ClickHouse started", zap.String("host", host), zap.String("port", port.Port()))

	if err := seed(ctx, host, port.Int()); err != nil {
		return err
	}

	// Point the application at the container
	os.Setenv("COMMUNITY_BACKEND", config.BackendClickHouse)
	os.Setenv("CLICKHOUSE_HOST", host)
	os.Setenv("CLICKHOUSE_PORT", strconv.Itoa(port.Int()))
	os.Setenv("CLICKHOUSE_DATABASE", "default")
	os.Setenv("CLICKHOUSE_USER", "default")
	os.Setenv("CLICKHOUSE_PASSWORD", devPassword)
	os.Setenv("CLICKHOUSE_USE_TLS", "false")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := app.OpenCommunityStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	application := app.New(cfg, logger, server.NewCommunity(store, logger), config.TransportHTTP, store)
	logger.Info("Starting community server with ClickHouse backend",
		zap.String("transport", application.Transport()),
		zap.String("addr", cfg.HTTPAddr),
	)
	return application.Run(ctx)
}

func seed(ctx context.Context, host string, port int) error {
	db, err := ch.NewCommunityDB(host, port, "default", "default", devPassword, false)
	if err != nil {
		return fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	return db.Seed(ctx, sampleChatters)
}
