package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"mcpdemo/internal/config"
	"mcpdemo/internal/storage"
	"mcpdemo/internal/storage/ch"
	"mcpdemo/internal/storage/sqlite"
	"mcpdemo/internal/storage/stubs"
)

const shutdownTimeout = 5 * time.Second

// App serves one MCP server over the configured transport
type App struct {
	config    *config.Config
	logger    *zap.Logger
	server    *mcp.Server
	transport string
	closers   []io.Closer

	httpServer *http.Server
}

// New creates an application serving server. defaultTransport applies when
// the configuration names none. closers are closed on shutdown.
func New(cfg *config.Config, logger *zap.Logger, server *mcp.Server, defaultTransport string, closers ...io.Closer) *App {
	return &App{
		config:    cfg,
		logger:    logger,
		server:    server,
		transport: cfg.TransportOr(defaultTransport),
		closers:   closers,
	}
}

// Transport returns the transport Run will use
func (a *App) Transport() string {
	return a.transport
}

// OpenCommunityStore connects the configured community backend
func OpenCommunityStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.CommunityStore, error) {
	if err := cfg.ValidateCommunity(); err != nil {
		return nil, err
	}

	switch cfg.CommunityBackend {
	case config.BackendMock:
		logger.Info("Using mock community database")
		db := stubs.NewMockCommunityDB()
		if err := db.Initialize(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize mock database: %w", err)
		}
		return db, nil

	case config.BackendClickHouse:
		logger.Info("Connecting to ClickHouse",
			zap.String("host", cfg.ClickHouseHost),
			zap.Int("port", cfg.ClickHousePort),
			zap.String("database", cfg.ClickHouseDatabase),
			zap.String("user", cfg.ClickHouseUser),
			zap.Bool("tls", cfg.ClickHouseUseTLS),
		)
		db, err := ch.NewCommunityDB(
			cfg.ClickHouseHost,
			cfg.ClickHousePort,
			cfg.ClickHouseDatabase,
			cfg.ClickHouseUser,
			cfg.ClickHousePassword,
			cfg.ClickHouseUseTLS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		return db, nil

	default:
		logger.Info("Using SQLite community database", zap.String("data_dir", cfg.DataDir))
		return sqlite.NewCommunityDB(sqlite.NewProvider(cfg.DataDir)), nil
	}
}

// Run serves until ctx is cancelled or the transport fails, then shuts down
func (a *App) Run(ctx context.Context) error {
	var err error
	switch a.transport {
	case config.TransportHTTP:
		err = a.runHTTP(ctx)
	default:
		a.logger.Info("Serving over stdio")
		err = a.server.Run(ctx, &mcp.StdioTransport{})
		if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
			err = nil
		}
	}

	if shutdownErr := a.Shutdown(); err == nil {
		err = shutdownErr
	}
	return err
}

func (a *App) runHTTP(ctx context.Context) error {
	a.httpServer = &http.Server{
		Addr:              a.config.HTTPAddr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server",
			zap.String("addr", a.config.HTTPAddr),
			zap.Bool("auth", a.config.AuthSecret != ""),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down...")
		return nil
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

// Handler returns the HTTP routes: /health and the streamable MCP endpoint on /mcp
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})

	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return a.server
	}, nil)
	mux.Handle("/mcp", a.authMiddleware(mcpHandler))

	return mux
}

// Shutdown gracefully stops the HTTP server and closes the stores
func (a *App) Shutdown() error {
	var errs []error

	if a.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("HTTP server shutdown error", zap.Error(err))
			errs = append(errs, err)
		}
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Error("Error closing database", zap.Error(err))
			errs = append(errs, err)
		}
	}

	a.logger.Info("Shutdown complete")
	return errors.Join(errs...)
}
