// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/specialistvlad/buildchain/internal/ctxlog"
	"github.com/specialistvlad/buildchain/internal/definition"
)

// BuildFailedError is returned when a chain ran but not every project succeeded.
type BuildFailedError struct {
	RunID  string
	Failed []string
}

func (e *BuildFailedError) Error() string {
	if len(e.Failed) == 0 {
		return fmt.Sprintf("build chain %s did not succeed", e.RunID)
	}
	return fmt.Sprintf("build chain %s failed: %s", e.RunID, strings.Join(e.Failed, ", "))
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	getenv func(string) string
	client *http.Client

	httpServer *http.Server
}

// Option customizes an App.
type Option func(*App)

// WithGetenv replaces os.Getenv for the hosted trigger.
func WithGetenv(getenv func(string) string) Option {
	return func(a *App) { a.getenv = getenv }
}

// WithHTTPClient sets the client used to fetch remote definition files.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) { a.client = c }
}

// NewApp is the constructor for the main application. Reports and listings
// go to outW, logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) *App {
	a := &App{
		outW:   outW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, logW),
		config: cfg,
		getenv: os.Getenv,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger.Debug("Logger configured successfully.")
	return a
}

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", string(a.config.Command))
	defer a.logger.Debug("App.Run method finished.")

	switch a.config.Command {
	case CommandSchema:
		return a.schema()
	case CommandList:
		return a.list(ctx)
	default:
		return a.build(ctx)
	}
}

func (a *App) load(ctx context.Context) (*definition.Catalog, error) {
	opts := []definition.LoaderOption{definition.WithToken(a.config.Token)}
	if a.client != nil {
		opts = append(opts, definition.WithHTTPClient(a.client))
	}
	loader := definition.NewLoader(opts...)
	catalog, err := loader.Load(ctx, a.config.Definitions...)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Definitions loaded.", "projects", catalog.Len())
	return catalog, nil
}

func (a *App) schema() error {
	s, err := definition.Schema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.outW, s)
	return err
}
