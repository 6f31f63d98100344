// Package dmsctl implements the subcommands of the dmsctl binary. Each
// subcommand parses its own flags, wires up the database pool and the
// synchronizer, and returns a process exit code.
package dmsctl

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/dockspace/internal/config"
	"github.com/edvin/dockspace/internal/core"
	"github.com/edvin/dockspace/internal/db"
	"github.com/edvin/dockspace/internal/dms"
	"github.com/edvin/dockspace/internal/logging"
)

type env struct {
	cfg      *config.Config
	logger   zerolog.Logger
	services *core.Services
	syncer   *dms.Syncer

	close func()
}

// setup loads config, connects to the database and builds the service layer.
// outputDir overrides cfg.DMSOutputDir when non-empty.
func setup(ctx context.Context, outputDir string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if outputDir != "" {
		cfg.DMSOutputDir = outputDir
	}
	if err := cfg.Validate("dmsctl"); err != nil {
		return nil, err
	}

	logger := logging.NewLogger(cfg)

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	services := core.NewServices(pool)

	return &env{
		cfg:      cfg,
		logger:   logger,
		services: services,
		syncer:   dms.NewSyncer(services.DMSStore, cfg.DMSOutputDir, logger),
		close:    pool.Close,
	}, nil
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
