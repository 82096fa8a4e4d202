package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dalvah/planease/internal"
	"github.com/dalvah/planease/internal/mcpserver"
	"github.com/dalvah/planease/internal/planner"
	"github.com/dalvah/planease/internal/storage"
	pkgconfig "github.com/dalvah/planease/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}
	if cmd.Bool("seed") {
		opts = append(opts, internal.WithSeedData())
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// runMCP serves the planner tools over MCP stdio. It shares the configured
// storage backend with the HTTP server, so alarms and settings saved by one
// are visible to the other.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var provider storage.Provider
	switch cfg.Storage.Backend {
	case internal.StorageBackendSQLite:
		provider, err = storage.OpenSQLite(cfg.Storage.Path)
	default:
		provider, err = storage.NewFS(cfg.Storage.Path)
	}
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer provider.Close()

	store := planner.NewStore()
	planner.LoadState(provider, store, slog.Default())

	return mcpserver.New(store, nil).ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "planease",
		Usage:  "Personal planner with events, tasks, alarms, and semester schedule import",
		Action: runServe,
		Flags: []cli.Flag{
			configFlag,
			&cli.BoolFlag{
				Name:  "seed",
				Usage: "Populate demo data when the store starts empty",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve planner tools over MCP stdio",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
