package remote

import (
	"strings"

	"github.com/shopspring/decimal"

	"shoppingCart/internal/apperr"
	"shoppingCart/models"
)

// UserDTO is the account payload returned by login and register.
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

func (d *UserDTO) ToDomain() (*models.User, error) {
	if d == nil || d.Email == "" {
		return nil, apperr.Empty("user payload is empty")
	}
	role := models.RoleUser
	if strings.EqualFold(d.Role, string(models.RoleAdmin)) {
		role = models.RoleAdmin
	}
	return &models.User{Name: d.Name, Email: d.Email, Phone: d.Phone, Role: role}, nil
}

// AuthResponse is returned by /auth/login and /auth/register.
type AuthResponse struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type ProductDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Barcode     string          `json:"barcode,omitempty"`
	Category    string          `json:"category,omitempty"`
	Size        string          `json:"size,omitempty"`
	Image       string          `json:"image,omitempty"`
}

func (d *ProductDTO) ToDomain() (models.Product, error) {
	if d == nil || d.ID == 0 {
		return models.Product{}, apperr.Empty("product payload is empty")
	}
	return models.Product{
		ID:          d.ID,
		Name:        d.Name,
		Price:       d.Price,
		Description: d.Description,
		Barcode:     d.Barcode,
		Category:    d.Category,
		Size:        d.Size,
		ImageURL:    d.Image,
	}, nil
}

// ProductsToDomain maps a list, skipping entries without an id.
func ProductsToDomain(in []ProductDTO) []models.Product {
	out := make([]models.Product, 0, len(in))
	for i := range in {
		p, err := in[i].ToDomain()
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

type CartItemDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (d CartItemDTO) ToDomain() models.CartItem {
	return models.CartItem{ProductID: d.ProductID, Quantity: d.Quantity}
}

type OrderItemDTO struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderDTO struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     string          `json:"created_at"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Items         []OrderItemDTO  `json:"items"`
}

func (d *OrderDTO) ToDomain() (*models.Order, error) {
	if d == nil || d.ID == "" {
		return nil, apperr.Empty("order payload is empty")
	}
	status := models.OrderStatus(strings.ToLower(d.Status))
	if !status.Valid() {
		status = models.OrderStatusPending
	}
	o := &models.Order{ID: d.ID, Status: status, Total: d.Total, CreatedAt: d.CreatedAt}
	for _, it := range d.Items {
		o.Items = append(o.Items, models.OrderItem{
			OrderID:   d.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	if d.PaymentMethod != "" {
		o.Payment = &models.OrderPayment{OrderID: d.ID, Method: models.PaymentMethod(d.PaymentMethod), Amount: d.Total}
	}
	return o, nil
}

type PlaceOrderRequest struct {
	ID            string        `json:"id"`
	Items         []CartItemDTO `json:"items"`
	PaymentMethod string        `json:"payment_method"`
	CardID        string        `json:"card_id,omitempty"`
}

type CardDTO struct {
	ID       string `json:"id"`
	Holder   string `json:"holder"`
	Last4    string `json:"last4"`
	Brand    string `json:"brand,omitempty"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
}

func (d *CardDTO) ToDomain() (*models.VirtualCard, error) {
	if d == nil || d.ID == "" {
		return nil, apperr.Empty("card payload is empty")
	}
	return &models.VirtualCard{
		Holder:   d.Holder,
		Last4:    d.Last4,
		Brand:    d.Brand,
		ExpMonth: d.ExpMonth,
		ExpYear:  d.ExpYear,
		RemoteID: d.ID,
	}, nil
}

type RegisterCardRequest struct {
	Holder   string `json:"holder"`
	Number   string `json:"number"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
}

// OfferDTO is one store's quote from the price comparison API.
type OfferDTO struct {
	Store    string          `json:"store"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	URL      string          `json:"url,omitempty"`
	Lat      float64         `json:"lat,omitempty"`
	Lng      float64         `json:"lng,omitempty"`
}

func (d OfferDTO) ToDomain() models.PriceOffer {
	return models.PriceOffer{Store: d.Store, Price: d.Price, Currency: d.Currency, URL: d.URL, Lat: d.Lat, Lng: d.Lng}
}
