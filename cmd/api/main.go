package main

import (
	"errors"
	"net/http"
	"os"

	"resume-tailor/internal/bootstrap"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/server"
	"resume-tailor/internal/shared/telemetry"
)

func main() {
	if err := run(config.Load()); err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": err.Error()})
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			telemetry.Warn("server.close_failed", map[string]any{"error": err.Error()})
		}
	}()

	addr := server.Addr(cfg.Port)
	telemetry.Info("server.start", map[string]any{"addr": addr, "env": cfg.Env})

	if err := app.Router.Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		telemetry.Error("server.stopped", map[string]any{"error": err.Error()})
		return err
	}
	return nil
}
