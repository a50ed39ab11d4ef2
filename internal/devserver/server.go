// Package devserver is an in-memory implementation of the shop REST API used for local
// runs and as the backend in tests.
package devserver

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"shoppingCart/internal/remote"
)

// Options configures a Server.
type Options struct {
	JWTSecret   string
	TokenTTL    time.Duration
	PriceAPIKey string // empty disables the api_key check
}

type account struct {
	id    int64
	name  string
	email string
	phone string
	role  string
	hash  string
}

// Server holds all backend state behind one mutex.
type Server struct {
	opts Options

	mu       sync.Mutex
	nextUser int64
	nextCard int64
	accounts map[string]*account // by lower-cased email
	products map[int64]remote.ProductDTO
	carts    map[int64]map[int64]int
	orders   map[int64][]remote.OrderDTO
	cards    map[int64][]remote.CardDTO
	offers   map[string][]remote.OfferDTO

	down           atomic.Bool
	barcodeLookups atomic.Int64
}

func New(opts Options) *Server {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}
	return &Server{
		opts:     opts,
		accounts: map[string]*account{},
		products: map[int64]remote.ProductDTO{},
		carts:    map[int64]map[int64]int{},
		orders:   map[int64][]remote.OrderDTO{},
		cards:    map[int64][]remote.CardDTO{},
		offers:   map[string][]remote.OfferDTO{},
	}
}

// SeedProducts replaces the catalog.
func (s *Server) SeedProducts(ps ...remote.ProductDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make(map[int64]remote.ProductDTO, len(ps))
	for _, p := range ps {
		s.products[p.ID] = p
	}
}

// SetOffers sets the price comparison quotes for barcode.
func (s *Server) SetOffers(barcode string, offers ...remote.OfferDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[barcode] = offers
}

// SetDown makes every request fail with 503 until called with false.
func (s *Server) SetDown(down bool) { s.down.Store(down) }

// BarcodeLookups counts requests to the barcode endpoint.
func (s *Server) BarcodeLookups() int { return int(s.barcodeLookups.Load()) }

// OrdersFor returns a copy of the orders placed by userID.
func (s *Server) OrdersFor(userID int64) []remote.OrderDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]remote.OrderDTO(nil), s.orders[userID]...)
}

func (s *Server) catalog() []remote.ProductDTO {
	out := make([]remote.ProductDTO, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Router wires the REST API under /api and the price API under /price.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.outage())

	api := r.Group("/api")
	api.POST("/auth/login", s.login)
	api.POST("/auth/register", s.register)
	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)
	api.GET("/barcodes/:code", s.productByBarcode)

	authed := api.Group("")
	authed.Use(s.requireUser())
	{
		authed.GET("/cart", s.getCart)
		authed.POST("/cart", s.addToCart)
		authed.DELETE("/cart/:id", s.removeFromCart)
		authed.GET("/orders", s.listOrders)
		authed.POST("/orders", s.placeOrder)
		authed.GET("/cards", s.listCards)
		authed.POST("/cards", s.registerCard)
		authed.DELETE("/cards/:id", s.deleteCard)
	}

	r.GET("/price/offers", s.priceOffers)
	return r
}
