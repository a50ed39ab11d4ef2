// Command shopctl drives the shopping data layer from a terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"shoppingCart/internal/app"
	"shoppingCart/internal/apperr"
	"shoppingCart/internal/config"
	"shoppingCart/internal/logger"
	"shoppingCart/internal/shutdown"
)

type command struct {
	usage string
	run   func(ctx context.Context, a *app.App, cfg *config.Config, args []string) (any, error)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: shopctl <command> [flags]")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(os.Stderr, "  %-14s %s\n", n, commands[n].usage)
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadWithDefaults()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "shopctl", Env: cfg.Env, Level: cfg.Log.Level, AddSource: cfg.Log.AddSource})
	log.Debug("configuration loaded", slog.String("config", cfg.String()))

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("close", slog.Any("err", err))
		}
	}()

	log.Debug("backend", slog.String("base_url", a.API.BaseURL()))

	if _, err := a.Users.Restore(ctx); err != nil && !errors.Is(err, apperr.ErrEmpty) {
		log.Warn("saved session not restored", slog.Any("err", err))
	}

	out, err := cmd.run(ctx, a, cfg, os.Args[2:])
	if err != nil {
		title, msg := apperr.Describe(err)
		fmt.Fprintf(os.Stderr, "%s: %s\n", title, msg)
		log.Debug("command failed", slog.String("command", os.Args[1]), slog.Any("err", err))
		a.Close()
		os.Exit(1)
	}
	if out != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	}
}
