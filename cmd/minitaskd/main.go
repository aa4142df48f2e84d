// Package main is the entry point for the minitask server daemon.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"minitask/internal/auth"
	"minitask/internal/clock"
	"minitask/internal/server"
	"minitask/internal/store"
)

// serverConfig is the on-disk configuration. Every field has a
// default; flags override the file.
type serverConfig struct {
	// Address is the TCP listen address.
	Address string `yaml:"address"`

	// Database is the sqlite database path.
	Database string `yaml:"database"`

	// PoolSize is the sqlite connection pool size.
	PoolSize int `yaml:"pool_size"`

	// TokenTTL is the credential lifetime as a duration string
	// (e.g. "168h"). Empty means the built-in default.
	TokenTTL string `yaml:"token_ttl"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

func defaultConfig() serverConfig {
	return serverConfig{
		Address:  ":8080",
		Database: "minitask.db",
		PoolSize: 4,
		LogLevel: "info",
	}
}

func loadConfig(path string) (serverConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("minitaskd", pflag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML config file")
	address := fs.String("address", "", "listen address (overrides config)")
	database := fs.String("database", "", "sqlite database path (overrides config)")
	logLevel := fs.String("log-level", "", "debug, info, warn, or error (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *address != "" {
		cfg.Address = *address
	}
	if *database != "" {
		cfg.Database = *database
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var tokenTTL time.Duration
	if cfg.TokenTTL != "" {
		tokenTTL, err = time.ParseDuration(cfg.TokenTTL)
		if err != nil {
			return fmt.Errorf("invalid token_ttl: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(store.Config{
		Path:     cfg.Database,
		PoolSize: cfg.PoolSize,
		Clock:    clock.Real(),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	provider, err := auth.NewProvider(auth.Config{
		Store:    st,
		Clock:    clock.Real(),
		TokenTTL: tokenTTL,
	})
	if err != nil {
		return err
	}

	svc, err := server.NewTaskService(provider, st, logger)
	if err != nil {
		return err
	}

	httpServer, err := server.NewHTTPServer(server.HTTPServerConfig{
		Address: cfg.Address,
		Handler: server.NewHandler(svc, provider, logger),
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	return httpServer.Serve(ctx)
}
