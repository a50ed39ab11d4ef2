package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Products(ctx context.Context) ([]ProductDTO, error) {
	var out struct {
		Products []ProductDTO `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *Client) Product(ctx context.Context, id int64) (*ProductDTO, error) {
	var out ProductDTO
	if err := c.do(ctx, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProductByBarcode(ctx context.Context, code string) (*ProductDTO, error) {
	var out ProductDTO
	if err := c.do(ctx, http.MethodGet, "/barcodes/"+url.PathEscape(code), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Cart(ctx context.Context) ([]CartItemDTO, error) {
	var out struct {
		Items []CartItemDTO `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) AddToCart(ctx context.Context, productID int64, qty int) error {
	return c.do(ctx, http.MethodPost, "/cart", CartItemDTO{ProductID: productID, Quantity: qty}, nil)
}

func (c *Client) RemoveFromCart(ctx context.Context, productID int64) error {
	return c.do(ctx, http.MethodDelete, "/cart/"+strconv.FormatInt(productID, 10), nil, nil)
}

func (c *Client) Orders(ctx context.Context) ([]OrderDTO, error) {
	var out struct {
		Orders []OrderDTO `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*OrderDTO, error) {
	var out OrderDTO
	if err := c.do(ctx, http.MethodPost, "/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Cards(ctx context.Context) ([]CardDTO, error) {
	var out struct {
		Cards []CardDTO `json:"cards"`
	}
	if err := c.do(ctx, http.MethodGet, "/cards", nil, &out); err != nil {
		return nil, err
	}
	return out.Cards, nil
}

func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/cards/"+url.PathEscape(id), nil, nil)
}

func (c *Client) RegisterCard(ctx context.Context, req RegisterCardRequest) (*CardDTO, error) {
	var out CardDTO
	if err := c.do(ctx, http.MethodPost, "/cards", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
