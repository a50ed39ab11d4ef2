package devserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shoppingCart/internal/auth"
	"shoppingCart/internal/remote"
	"shoppingCart/models"
)

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func (s *Server) issue(a *account) (remote.AuthResponse, error) {
	tok, err := auth.IssueToken(s.opts.JWTSecret, &models.User{ID: a.id, Name: a.name, Role: models.Role(a.role)}, s.opts.TokenTTL)
	if err != nil {
		return remote.AuthResponse{}, err
	}
	return remote.AuthResponse{
		Token: tok,
		User:  &remote.UserDTO{ID: a.id, Name: a.name, Email: a.email, Phone: a.phone, Role: a.role},
	}, nil
}

func (s *Server) register(c *gin.Context) {
	var req remote.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		badRequest(c, "name, email and password are required")
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password"})
		return
	}

	s.mu.Lock()
	key := strings.ToLower(req.Email)
	if _, ok := s.accounts[key]; ok {
		s.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}
	s.nextUser++
	a := &account{id: s.nextUser, name: req.Name, email: req.Email, phone: req.Phone, role: string(models.RoleUser), hash: hash}
	s.accounts[key] = a
	s.mu.Unlock()

	resp, err := s.issue(a)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) login(c *gin.Context) {
	var req remote.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	s.mu.Lock()
	a := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if a == nil || auth.CheckPassword(a.hash, req.Password) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrBadCredentials.Error()})
		return
	}
	resp, err := s.issue(a)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listProducts(c *gin.Context) {
	s.mu.Lock()
	out := s.catalog()
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (s *Server) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid product id")
		return
	}
	s.mu.Lock()
	p, ok := s.products[id]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) productByBarcode(c *gin.Context) {
	s.barcodeLookups.Add(1)
	code := c.Param("code")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.Barcode == code {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "no product for barcode " + code})
}

func (s *Server) getCart(c *gin.Context) {
	uid := userID(c)
	s.mu.Lock()
	items := make([]remote.CartItemDTO, 0, len(s.carts[uid]))
	for pid, q := range s.carts[uid] {
		items = append(items, remote.CartItemDTO{ProductID: pid, Quantity: q})
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) addToCart(c *gin.Context) {
	var req remote.CartItemDTO
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == 0 {
		badRequest(c, "product_id is required")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	uid := userID(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[req.ProductID]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if s.carts[uid] == nil {
		s.carts[uid] = map[int64]int{}
	}
	s.carts[uid][req.ProductID] += req.Quantity
	c.Status(http.StatusNoContent)
}

func (s *Server) removeFromCart(c *gin.Context) {
	pid, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid product id")
		return
	}
	s.mu.Lock()
	delete(s.carts[userID(c)], pid)
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (s *Server) listOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": s.OrdersFor(userID(c))})
}

func (s *Server) placeOrder(c *gin.Context) {
	var req remote.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		badRequest(c, "order has no items")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	uid := userID(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	o := remote.OrderDTO{
		ID:            req.ID,
		Status:        string(models.OrderStatusPending),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		PaymentMethod: req.PaymentMethod,
	}
	total := decimal.Zero
	for _, it := range req.Items {
		p, ok := s.products[it.ProductID]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("product %d not found", it.ProductID)})
			return
		}
		o.Items = append(o.Items, remote.OrderItemDTO{ProductID: p.ID, Name: p.Name, Quantity: it.Quantity, UnitPrice: p.Price})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	o.Total = total
	s.orders[uid] = append(s.orders[uid], o)
	delete(s.carts, uid)
	c.JSON(http.StatusCreated, o)
}

func (s *Server) listCards(c *gin.Context) {
	s.mu.Lock()
	out := append([]remote.CardDTO{}, s.cards[userID(c)]...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"cards": out})
}

func (s *Server) registerCard(c *gin.Context) {
	var req remote.RegisterCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if len(req.Number) < 12 || req.Holder == "" {
		badRequest(c, "holder and card number are required")
		return
	}
	uid := userID(c)
	s.mu.Lock()
	s.nextCard++
	card := remote.CardDTO{
		ID:       "card_" + strconv.FormatInt(s.nextCard, 10),
		Holder:   req.Holder,
		Last4:    req.Number[len(req.Number)-4:],
		Brand:    brandOf(req.Number),
		ExpMonth: req.ExpMonth,
		ExpYear:  req.ExpYear,
	}
	s.cards[uid] = append(s.cards[uid], card)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, card)
}

func (s *Server) deleteCard(c *gin.Context) {
	id := c.Param("id")
	uid := userID(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := s.cards[uid]
	for i := range cards {
		if cards[i].ID == id {
			s.cards[uid] = append(cards[:i:i], cards[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
}

func brandOf(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return "visa"
	case strings.HasPrefix(number, "5"):
		return "mastercard"
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return "amex"
	default:
		return "card"
	}
}

func (s *Server) priceOffers(c *gin.Context) {
	if s.opts.PriceAPIKey != "" && c.Query("api_key") != s.opts.PriceAPIKey {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid api key"})
		return
	}
	code := c.Query("barcode")
	if code == "" {
		badRequest(c, "barcode is required")
		return
	}
	s.mu.Lock()
	out := append([]remote.OfferDTO{}, s.offers[code]...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"offers": out})
}
