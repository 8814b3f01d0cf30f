package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ginjaninja78/csvtable/internal/config"
	"github.com/ginjaninja78/csvtable/internal/engine"
	"github.com/ginjaninja78/csvtable/internal/format"
	"github.com/ginjaninja78/csvtable/internal/logging"
	"github.com/ginjaninja78/csvtable/internal/store"
	"github.com/ginjaninja78/csvtable/pkg/utils"
)

// fetchTimeout bounds remote source downloads.
const fetchTimeout = 30 * time.Second

// session is a loaded dashboard ready for rendering.
type session struct {
	cfg        *config.Config
	dash       *engine.Dashboard
	selections engine.SelectionMap
	logger     *slog.Logger
}

// openSession loads the configuration at path, sets up logging, loads the
// source, and registers every table and filter binding.
func openSession(ctx context.Context, path string, debug bool) (*session, error) {
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("config file not found: %s (set --config)", path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger := logging.Setup(level, cfg.LogFormat)

	return newSession(ctx, cfg, logger)
}

func newSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*session, error) {
	custom, err := format.CompileExpressions(cfg.Formatters)
	if err != nil {
		return nil, fmt.Errorf("failed to compile formatters: %w", err)
	}

	s := &session{
		cfg:        cfg,
		selections: engine.SelectionMap{},
		logger:     logger,
	}
	s.dash = engine.New(
		store.New(&http.Client{Timeout: fetchTimeout}),
		engine.WithFormatter(format.New(cfg.Locale, custom)),
		engine.WithSelections(s.selections),
		engine.WithLogger(logger),
	)

	if err := s.dash.Load(ctx, cfg.Source.Locator); err != nil {
		return nil, err
	}

	for _, tbl := range cfg.Tables {
		s.dash.Register(tbl.Name, tbl.TableDef)
	}
	for _, b := range cfg.Filters {
		if err := s.dash.Bind(b); err != nil {
			logger.Warn("filter binding skipped", "select", b.Select, "error", err)
		}
	}

	return s, nil
}
