// Package main is the entry point for the minitask CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"minitask/internal/cli"
	"minitask/internal/client"
	"minitask/internal/commands"
	"minitask/internal/config"
	"minitask/internal/service"
	"minitask/internal/session"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// The factory binds the stored session to an HTTP-backed service.
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		if !cfg.HasSession() {
			return nil, cli.ErrNotLoggedIn
		}
		sess, err := session.Load(cfg.SessionPath())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cli.ErrNotLoggedIn, err)
		}
		return client.New(ctx, cfg.ServerURL, sess), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
