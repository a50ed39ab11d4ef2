package devserver

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/remote"
)

type tokenBox struct{ tok string }

func (b *tokenBox) Token() string { return b.tok }

func newBackend(t *testing.T) (*Server, *remote.Client, *tokenBox, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := New(Options{JWTSecret: "test-secret", PriceAPIKey: "pk"})
	s.SeedProducts(
		remote.ProductDTO{ID: 1, Name: "Milk", Price: decimal.RequireFromString("1.20"), Barcode: "8938508475056"},
		remote.ProductDTO{ID: 2, Name: "Bread", Price: decimal.RequireFromString("2.50"), Barcode: "111"},
	)
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	box := &tokenBox{}
	return s, remote.NewClient(srv.URL+"/api", time.Second, box), box, srv.URL
}

func TestDevServer_AuthCartOrderFlow(t *testing.T) {
	s, c, box, _ := newBackend(t)
	ctx := context.Background()

	if _, err := c.Cart(ctx); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("cart without token: %v", err)
	}

	reg, err := c.Register(ctx, remote.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "pw123456"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := c.Register(ctx, remote.RegisterRequest{Name: "Ann", Email: "ANN@example.com", Password: "x"}); err == nil {
		t.Fatalf("duplicate register should fail")
	}
	if _, err := c.Login(ctx, "ann@example.com", "wrong"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("bad password: %v", err)
	}
	box.tok = reg.Token

	if err := c.AddToCart(ctx, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.AddToCart(ctx, 2, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.RemoveFromCart(ctx, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	items, err := c.Cart(ctx)
	if err != nil || len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("cart = %+v err = %v", items, err)
	}

	o, err := c.PlaceOrder(ctx, remote.PlaceOrderRequest{ID: "o-1", Items: items, PaymentMethod: "cash"})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if !o.Total.Equal(decimal.RequireFromString("2.40")) || o.Status != "pending" {
		t.Fatalf("order = %+v", o)
	}
	if got := s.OrdersFor(reg.User.ID); len(got) != 1 {
		t.Fatalf("orders stored = %d", len(got))
	}
	if items, _ := c.Cart(ctx); len(items) != 0 {
		t.Fatalf("cart should be emptied by order, got %+v", items)
	}
}

func TestDevServer_BarcodeAndCards(t *testing.T) {
	s, c, box, _ := newBackend(t)
	ctx := context.Background()

	p, err := c.ProductByBarcode(ctx, "8938508475056")
	if err != nil || p.Name != "Milk" {
		t.Fatalf("barcode lookup = %+v err = %v", p, err)
	}
	if _, err := c.ProductByBarcode(ctx, "000"); err == nil {
		t.Fatalf("unknown barcode should fail")
	}
	if s.BarcodeLookups() != 2 {
		t.Fatalf("lookups = %d", s.BarcodeLookups())
	}

	reg, _ := c.Register(ctx, remote.RegisterRequest{Name: "Bo", Email: "bo@example.com", Password: "pw"})
	box.tok = reg.Token
	card, err := c.RegisterCard(ctx, remote.RegisterCardRequest{Holder: "Bo", Number: "4242424242424242", ExpMonth: 1, ExpYear: 2030})
	if err != nil || card.Last4 != "4242" || card.Brand != "visa" {
		t.Fatalf("card = %+v err = %v", card, err)
	}
	cards, err := c.Cards(ctx)
	if err != nil || len(cards) != 1 {
		t.Fatalf("cards = %+v err = %v", cards, err)
	}
}

func TestDevServer_OutageAndPrices(t *testing.T) {
	s, c, _, base := newBackend(t)
	ctx := context.Background()
	s.SetOffers("111", remote.OfferDTO{Store: "Corner", Price: decimal.RequireFromString("2.10"), Currency: "USD"})

	offers, err := remote.NewPriceClient(base+"/price", "pk", time.Second).Offers(ctx, "111")
	if err != nil || len(offers) != 1 {
		t.Fatalf("offers = %+v err = %v", offers, err)
	}

	s.SetDown(true)
	if _, err := c.Products(ctx); !errors.Is(err, apperr.ErrNetwork) {
		t.Fatalf("outage should be network error, got %v", err)
	}
	s.SetDown(false)
	ps, err := c.Products(ctx)
	if err != nil || len(ps) != 2 || ps[0].ID != 1 {
		t.Fatalf("products = %+v err = %v", ps, err)
	}
}
