// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/specialistvlad/buildchain/internal/ctxlog"
	"github.com/specialistvlad/buildchain/internal/orchestrator"
)

// snapshotter exposes the live Run Result.
type snapshotter interface {
	Snapshot() *orchestrator.RunResult
}

// healthHandler reports liveness.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// statusHandler serves the current Run Result as JSON.
func (a *App) statusHandler(run snapshotter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.logger.Debug("Status endpoint hit.", "remote_addr", r.RemoteAddr)
		snap := run.Snapshot()
		if snap == nil {
			http.Error(w, "run not started", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			a.logger.Warn("Cannot encode status.", "error", err)
		}
	}
}

func (a *App) statusMux(run snapshotter) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /status", a.statusHandler(run))
	return mux
}

// startStatusServer runs the status HTTP server in the background.
func (a *App) startStatusServer(ctx context.Context, port int, run snapshotter) {
	logger := ctxlog.FromContext(ctx)
	addr := fmt.Sprintf(":%d", port)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.statusMux(run),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Status server starting.", "address", fmt.Sprintf("http://localhost%s/status", addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status server failed unexpectedly.", "error", err)
		}
	}()
}

func (a *App) closeStatusServer(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	if a.httpServer == nil {
		logger.Debug("Status server was not running.")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Status server shutdown failed.", "error", err)
		return
	}
	logger.Debug("Status server shut down gracefully.")
}
