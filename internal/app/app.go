// Package app assembles the data layer from configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"shoppingCart/internal/config"
	"shoppingCart/internal/db"
	"shoppingCart/internal/remote"
	"shoppingCart/internal/service"
	"shoppingCart/internal/session"
	"shoppingCart/repository"
)

// App owns the store, the session and every feature service.
type App struct {
	DB       *sql.DB
	State    *session.State
	Settings *session.Settings
	API      *remote.Client

	Users     *service.UserService
	Products  *service.ProductService
	Cart      *service.CartService
	Orders    *service.OrderService
	Cards     *service.CardService
	Search    *service.SearchService
	Barcodes  *service.BarcodeService
	Prices    *service.PriceService
	Addresses *service.AddressService
	Todos     *service.TodoService

	closers []func() error
}

// Open opens the database and the configured preference backend, then wires the services.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	closers := []func() error{d.Close}

	var prefs session.Preferences = repository.NewPreferenceRepository(d)
	switch cfg.Prefs.Backend {
	case "memory":
		prefs = session.NewMemoryPreferences()
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pctx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			_ = d.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		prefs = session.NewRedisPreferences(rdb, cfg.Redis.Prefix)
		closers = append(closers, rdb.Close)
		log.Info("preferences stored in redis", "addr", cfg.Redis.Addr)
	}

	a := New(cfg, d, prefs, log)
	a.closers = closers
	return a, nil
}

// New wires the services over an already opened database and preference store.
func New(cfg *config.Config, d *sql.DB, prefs session.Preferences, log *slog.Logger) *App {
	state := session.NewState()
	settings := session.NewSettings(prefs)
	api := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, state)
	prices := remote.NewPriceClient(cfg.Remote.PriceBaseURL, cfg.Remote.PriceAPIKey, cfg.Remote.Timeout)

	users := repository.NewUserRepository(d)
	productRepo := repository.NewProductRepository(d)
	cartRepo := repository.NewCartRepository(d)
	cardRepo := repository.NewCardRepository(d)
	locationRepo := repository.NewLocationRepository(d)

	products := service.NewProductService(productRepo, repository.NewBookmarkRepository(d), api, log)
	return &App{
		DB:        d,
		State:     state,
		Settings:  settings,
		API:       api,
		Users:     service.NewUserService(users, api, state, settings, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, log),
		Products:  products,
		Cart:      service.NewCartService(cartRepo, productRepo, api, log),
		Orders:    service.NewOrderService(repository.NewOrderRepository(d), cardRepo, locationRepo, api, state, log),
		Cards:     service.NewCardService(cardRepo, api, state, log),
		Search:    service.NewSearchService(settings, nil, log),
		Barcodes:  service.NewBarcodeService(products, repository.NewBarcodeRepository(d), log),
		Prices:    service.NewPriceService(prices, cartRepo, log),
		Addresses: service.NewAddressService(locationRepo, state, log),
		Todos:     service.NewTodoService(repository.NewTodoRepository(d), log),
	}
}

// Close releases the store and preference backend.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
