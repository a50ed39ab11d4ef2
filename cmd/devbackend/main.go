// Command devbackend serves the REST backend the shopping clients talk to,
// backed by memory and seeded with a small demo catalog.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"shoppingCart/internal/config"
	"shoppingCart/internal/devserver"
	"shoppingCart/internal/logger"
	"shoppingCart/internal/shutdown"
)

func main() {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		slog.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Service:   "devbackend",
		Env:       cfg.Env,
		Level:     cfg.Log.Level,
		AddSource: cfg.Log.AddSource,
	})
	log.Info("configuration loaded", slog.String("config", cfg.String()))

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	backend := devserver.New(devserver.Options{
		JWTSecret:   cfg.Auth.JWTSecret,
		TokenTTL:    cfg.Auth.SessionTTL,
		PriceAPIKey: cfg.Remote.PriceAPIKey,
	})
	seed(backend)

	router := backend.Router()
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	server := &http.Server{
		Addr:              cfg.Dev.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", cfg.Dev.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	var stopGRPC func(context.Context) error
	if cfg.Dev.GRPCAddress != "" {
		addr, stop, err := devserver.StartGRPC(cfg.Dev.GRPCAddress, log, "", "orders")
		if err != nil {
			log.Error("grpc listen", slog.Any("err", err))
			cancel()
		} else {
			log.Info("grpc health server listening", slog.String("addr", addr.String()))
			stopGRPC = stop
		}
	}

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}
	if stopGRPC != nil {
		if err := stopGRPC(shutdownCtx); err != nil {
			log.Error("grpc shutdown error", slog.Any("err", err))
		}
	}

	wg.Wait()
	log.Info("bye")
}
