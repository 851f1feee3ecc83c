// Package app assembles the process: config, logging router, hub, and HTTP
// server.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	server "pinfield/server"
	"pinfield/server/catalog"
	servernet "pinfield/server/internal/net"
	"pinfield/server/internal/observability"
	"pinfield/server/internal/sim"
	"pinfield/server/internal/telemetry"
	"pinfield/server/logging"
	loggingSinks "pinfield/server/logging/sinks"
)

// Config carries the process-level overrides accepted by Run.
type Config struct {
	Logger        telemetry.Logger
	Observability observability.Config
}

// Run boots the server and blocks until it fails.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	fileCfg, err := LoadFileConfig(os.Getenv("PINFIELD_CONFIG"))
	if err != nil {
		return err
	}
	applyEnvOverrides(&fileCfg, telemetryLogger)

	logConfig := logging.DefaultConfig()
	if len(fileCfg.Logging.Sinks) > 0 {
		logConfig.EnabledSinks = fileCfg.Logging.Sinks
	}
	sinks := map[string]logging.Sink{
		logging.SinkConsole: loggingSinks.NewConsole(os.Stdout, logConfig.Console),
	}
	if logConfig.HasSink(logging.SinkJSON) {
		path := fileCfg.Logging.JSONPath
		if path == "" {
			path = logging.DefaultJSONFilePath
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("app: open json log %s: %w", path, err)
		}
		defer file.Close()
		sinks[logging.SinkJSON] = loggingSinks.NewJSON(file, logConfig.JSON.FlushInterval)
	}

	router, err := logging.NewRouter(logConfig, logging.SystemClock{}, log.Default(), sinks)
	if err != nil {
		return fmt.Errorf("app: construct logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(ctx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	if len(fileCfg.Playfield.Catalog) == 0 {
		if resolver, err := catalog.Load(catalog.DefaultPaths()...); err != nil {
			telemetryLogger.Printf("obstacle catalog rejected, using built-in kinds: %v", err)
		} else if kinds := resolver.Kinds(); len(kinds) > 0 {
			fileCfg.Playfield.Catalog = kinds
		}
	}

	observabilityCfg := cfg.Observability
	if fileCfg.Pprof {
		observabilityCfg.EnablePprofTrace = true
	}
	if raw := os.Getenv("ENABLE_PPROF_TRACE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			observabilityCfg.EnablePprofTrace = value
		} else {
			telemetryLogger.Printf("invalid ENABLE_PPROF_TRACE=%q: %v", raw, err)
		}
	}

	deps := sim.Deps{
		Logger:    telemetryLogger,
		Metrics:   telemetry.WrapMetrics(router.Metrics()),
		Clock:     logging.SystemClock{},
		Publisher: router,
	}
	hub, err := server.NewHub(server.HubConfig{
		Playfield: fileCfg.Playfield,
		Loop: sim.LoopConfig{
			TickRate:        fileCfg.Loop.TickRate,
			CommandCapacity: fileCfg.Loop.CommandCapacity,
			PerActorLimit:   fileCfg.Loop.PerActorLimit,
		},
	}, deps)
	if err != nil {
		return fmt.Errorf("app: build hub: %w", err)
	}

	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		ClientDir:     fileCfg.ClientDir,
		Logger:        log.Default(),
		Observability: observabilityCfg,
	})

	srv := &http.Server{Addr: fileCfg.Addr, Handler: handler}
	telemetryLogger.Printf("server listening on %s", srv.Addr)

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// applyEnvOverrides layers flat environment overrides on top of the file
// config so container deployments can skip the YAML entirely.
func applyEnvOverrides(cfg *FileConfig, logger telemetry.Logger) {
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}
	if addr := os.Getenv("PINFIELD_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if seed := os.Getenv("PINFIELD_SEED"); seed != "" {
		cfg.Playfield.Seed = seed
	}
	if raw := os.Getenv("PINFIELD_TICK_RATE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.Loop.TickRate = value
		} else {
			logger.Printf("invalid PINFIELD_TICK_RATE=%q", raw)
		}
	}
	if dir := os.Getenv("PINFIELD_CLIENT_DIR"); dir != "" {
		cfg.ClientDir = dir
	}
}
