package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mcpdemo/internal/app"
	"mcpdemo/internal/config"
	"mcpdemo/internal/library"
	"mcpdemo/internal/logging"
	"mcpdemo/internal/names"
	"mcpdemo/internal/server"
	"mcpdemo/internal/storage/sqlite"
)

type flags struct {
	transport string
	addr      string
	dataDir   string
}

// shared is filled by the root command before any subcommand runs
type shared struct {
	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	rt := &shared{}

	root := &cobra.Command{
		Use:           "mcpdemo",
		Short:         "Example MCP servers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envErr := godotenv.Load()

			cfg, err := loadConfig(f, cmd.Flags().Changed)
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			if envErr != nil {
				logger.Debug("No .env file found, using environment variables")
			}

			rt.cfg = cfg
			rt.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.transport, "transport", "", "transport to serve on: stdio or http")
	pf.StringVar(&f.addr, "addr", "", "HTTP listen address")
	pf.StringVar(&f.dataDir, "data-dir", "", "directory holding the SQLite stores")

	root.AddCommand(
		serveCmd(rt, "random-name", "Pick a random name from a short list", config.TransportStdio,
			func(context.Context) (*mcp.Server, []io.Closer, error) {
				return server.NewRandomName(names.NewPicker(names.Classic, nil), rt.logger), nil, nil
			}),
		serveCmd(rt, "random-name-v2", "Pick a random name from the extended list", config.TransportHTTP,
			func(context.Context) (*mcp.Server, []io.Closer, error) {
				return server.NewRandomNameV2(names.NewPicker(names.Extended, nil), rt.logger), nil, nil
			}),
		serveCmd(rt, "prompt", "Serve the analysis prompt", config.TransportStdio,
			func(context.Context) (*mcp.Server, []io.Closer, error) {
				return server.NewPrompt(rt.logger), nil, nil
			}),
		serveCmd(rt, "library", "Serve the library catalog resources", config.TransportStdio,
			func(context.Context) (*mcp.Server, []io.Closer, error) {
				views := library.NewViews(library.DefaultDataset(), time.Now)
				return server.NewLibrary(views, rt.logger), nil, nil
			}),
		serveCmd(rt, "community", "Serve the chat message ranking", config.TransportStdio,
			func(ctx context.Context) (*mcp.Server, []io.Closer, error) {
				store, err := app.OpenCommunityStore(ctx, rt.cfg, rt.logger)
				if err != nil {
					return nil, nil, err
				}
				return server.NewCommunity(store, rt.logger), []io.Closer{store}, nil
			}),
		serveCmd(rt, "world", "Serve the world geography lookups", config.TransportStdio,
			func(context.Context) (*mcp.Server, []io.Closer, error) {
				store := sqlite.NewWorldDB(sqlite.NewProvider(rt.cfg.DataDir))
				return server.NewWorld(store, rt.logger), nil, nil
			}),
	)

	return root
}

// loadConfig reads the environment, applies the flags the user set and
// validates the result once
func loadConfig(f flags, changed func(name string) bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if changed("transport") {
		cfg.Transport = f.transport
	}
	if changed("addr") {
		cfg.HTTPAddr = f.addr
	}
	if changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type buildFunc func(ctx context.Context) (*mcp.Server, []io.Closer, error)

func serveCmd(rt *shared, use, short, defaultTransport string, build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, closers, err := build(ctx)
			if err != nil {
				return err
			}

			application := app.New(rt.cfg, rt.logger, s, defaultTransport, closers...)
			rt.logger.Info("Starting server",
				zap.String("server", use),
				zap.String("transport", application.Transport()),
			)
			return application.Run(ctx)
		},
	}
}
