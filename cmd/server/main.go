/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/scaffold/pkg/config"
	"github.com/masteryyh/scaffold/pkg/conn"
	"github.com/masteryyh/scaffold/pkg/routes"
	"github.com/masteryyh/scaffold/pkg/services"
	"github.com/masteryyh/scaffold/pkg/utils/logging"
	"github.com/masteryyh/scaffold/pkg/utils/safe"
	"github.com/masteryyh/scaffold/pkg/utils/signal"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	slog.Info("loading configuration...")
	if err := config.Init(); err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}
	cfg := config.GetConfigManager().GetConfig()

	logger := logging.New(cfg.Development)
	slog.SetDefault(logger)
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	baseCtx, cancel := signal.SetupContext()
	defer cancel()

	slog.InfoContext(baseCtx, "initializing database connection...", "driver", cfg.DB.Driver)
	if err := conn.InitDB(baseCtx, cfg.DB); err != nil {
		slog.ErrorContext(baseCtx, "failed to initialize database connection", "error", err)
		return err
	}
	defer func() {
		if err := conn.CloseDB(); err != nil {
			slog.Warn("failed to close database", "error", err)
		}
	}()

	db := conn.GetDB()
	api, err := routes.NewAPIRoutes(services.NewExampleService(db), services.NewHealthService(db, version), cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           routes.NewEngine(cfg, logger, api),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	safe.GoSafeWithCtx("http-server", baseCtx, func(ctx context.Context) {
		slog.InfoContext(ctx, "starting http server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	})

	select {
	case <-baseCtx.Done():
	case err := <-serverErr:
		slog.Error("http server failed", "error", err)
		return err
	}

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
