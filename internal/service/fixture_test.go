package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"shoppingCart/internal/devserver"
	"shoppingCart/internal/logger"
	"shoppingCart/internal/remote"
	"shoppingCart/internal/session"
	"shoppingCart/internal/testutil"
	"shoppingCart/repository"
)

const (
	testSecret   = "service-test-secret"
	testPriceKey = "price-key"
	milkBarcode  = "8938508475056"
)

type fixture struct {
	db       *sql.DB
	backend  *devserver.Server
	baseURL  string
	state    *session.State
	settings *session.Settings
	api      *remote.Client

	users     *UserService
	products  *ProductService
	cart      *CartService
	orders    *OrderService
	cards     *CardService
	search    *SearchService
	barcodes  *BarcodeService
	prices    *PriceService
	addresses *AddressService
	todos     *TodoService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d := testutil.OpenInMemoryDB(t)
	backend, base := testutil.StartBackend(t, testSecret, testPriceKey)
	backend.SeedProducts(
		remote.ProductDTO{ID: 1, Name: "Milk", Price: decimal.RequireFromString("1.20"), Barcode: milkBarcode, Category: "dairy"},
		remote.ProductDTO{ID: 2, Name: "Bread", Price: decimal.RequireFromString("2.50"), Barcode: "4006381333931", Category: "bakery"},
		remote.ProductDTO{ID: 3, Name: "Eggs", Price: decimal.RequireFromString("3.10"), Barcode: "5000112637922", Category: "dairy"},
		remote.ProductDTO{ID: 4, Name: "Loose apples", Price: decimal.RequireFromString("0.40")},
	)

	log := logger.Discard()
	state := session.NewState()
	settings := session.NewSettings(session.NewMemoryPreferences())
	api := remote.NewClient(base+"/api", 2*time.Second, state)

	productRepo := repository.NewProductRepository(d)
	cartRepo := repository.NewCartRepository(d)
	cardRepo := repository.NewCardRepository(d)
	locationRepo := repository.NewLocationRepository(d)

	f := &fixture{db: d, backend: backend, baseURL: base, state: state, settings: settings, api: api}
	f.users = NewUserService(repository.NewUserRepository(d), api, state, settings, testSecret, time.Hour, log)
	f.products = NewProductService(productRepo, repository.NewBookmarkRepository(d), api, log)
	f.cart = NewCartService(cartRepo, productRepo, api, log)
	f.orders = NewOrderService(repository.NewOrderRepository(d), cardRepo, locationRepo, api, state, log)
	f.cards = NewCardService(cardRepo, api, state, log)
	f.search = NewSearchService(settings, nil, log)
	f.barcodes = NewBarcodeService(f.products, repository.NewBarcodeRepository(d), log)
	f.prices = NewPriceService(remote.NewPriceClient(base+"/price", testPriceKey, 2*time.Second), cartRepo, log)
	f.addresses = NewAddressService(locationRepo, state, log)
	f.todos = NewTodoService(repository.NewTodoRepository(d), log)
	return f
}

// syncCatalog pulls the backend catalog into the local cache.
func (f *fixture) syncCatalog(t *testing.T) {
	t.Helper()
	if _, err := f.products.List(context.Background()); err != nil {
		t.Fatalf("sync catalog: %v", err)
	}
}

// signIn registers a local account and signs it in.
func (f *fixture) signIn(t *testing.T, email string) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.users.Register(ctx, RegisterInput{Name: "Test", Email: email, Password: "secret123"}); err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	if _, err := f.users.Login(ctx, email, "secret123"); err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
}

// signInRemote creates a backend account and signs in through the backend.
func (f *fixture) signInRemote(t *testing.T, email string) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.api.Register(ctx, remote.RegisterRequest{Name: "Remote", Email: email, Password: "secret123"}); err != nil {
		t.Fatalf("remote register: %v", err)
	}
	if _, err := f.users.RemoteLogin(ctx, email, "secret123"); err != nil {
		t.Fatalf("remote login: %v", err)
	}
}
