package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/keylock"
	"shoppingCart/internal/remote"
	"shoppingCart/models"
	"shoppingCart/repository"
)

// CartService manages the single local cart. Mutations on one product are serialised.
type CartService struct {
	cart     repository.CartRepositoryI
	products repository.ProductRepositoryI
	api      *remote.Client
	locks    *keylock.Map[int64]
	log      *slog.Logger
}

func NewCartService(cart repository.CartRepositoryI, products repository.ProductRepositoryI, api *remote.Client, log *slog.Logger) *CartService {
	return &CartService{cart: cart, products: products, api: api, locks: keylock.New[int64](), log: orDefault(log)}
}

func (s *CartService) ensureProduct(ctx context.Context, id int64) error {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.Empty("product not found")
	}
	return nil
}

// Toggle removes the product if it is in the cart, otherwise adds it with quantity 1.
// It returns whether the product is in the cart afterwards.
func (s *CartService) Toggle(ctx context.Context, productID int64) (bool, error) {
	unlock := s.locks.Lock(productID)
	defer unlock()

	if err := s.ensureProduct(ctx, productID); err != nil {
		return false, fail(s.log, "cart.toggle", err)
	}
	in, err := s.cart.Toggle(ctx, productID)
	if err != nil {
		return false, fail(s.log, "cart.toggle", err)
	}
	return in, nil
}

func (s *CartService) Add(ctx context.Context, productID int64, qty int) error {
	if qty <= 0 {
		return apperr.Custom("quantity must be at least 1")
	}
	unlock := s.locks.Lock(productID)
	defer unlock()

	if err := s.ensureProduct(ctx, productID); err != nil {
		return fail(s.log, "cart.add", err)
	}
	if err := s.cart.Add(ctx, productID, qty); err != nil {
		return fail(s.log, "cart.add", err)
	}
	return nil
}

// SetQuantity sets an absolute quantity; zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, productID int64, qty int) error {
	unlock := s.locks.Lock(productID)
	defer unlock()

	if qty > 0 {
		if err := s.ensureProduct(ctx, productID); err != nil {
			return fail(s.log, "cart.set_quantity", err)
		}
	}
	if err := s.cart.SetQuantity(ctx, productID, qty); err != nil {
		return fail(s.log, "cart.set_quantity", err)
	}
	return nil
}

// Increment adds one and returns the new quantity.
func (s *CartService) Increment(ctx context.Context, productID int64) (int, error) {
	if err := s.Add(ctx, productID, 1); err != nil {
		return 0, err
	}
	it, err := s.cart.Get(ctx, productID)
	if err != nil {
		return 0, fail(s.log, "cart.increment", err)
	}
	if it == nil {
		return 0, nil
	}
	return it.Quantity, nil
}

// Decrement removes one and returns the remaining quantity; 0 means the line is gone.
func (s *CartService) Decrement(ctx context.Context, productID int64) (int, error) {
	unlock := s.locks.Lock(productID)
	defer unlock()

	n, err := s.cart.Decrement(ctx, productID)
	if err != nil {
		return 0, fail(s.log, "cart.decrement", err)
	}
	return n, nil
}

func (s *CartService) Items(ctx context.Context) ([]models.CartLine, error) {
	lines, err := s.cart.Lines(ctx)
	if err != nil {
		return nil, fail(s.log, "cart.items", err)
	}
	return lines, nil
}

// Count is the number of distinct products in the cart, shown on the cart badge.
func (s *CartService) Count(ctx context.Context) (int, error) {
	n, err := s.cart.Count(ctx)
	if err != nil {
		return 0, fail(s.log, "cart.count", err)
	}
	return n, nil
}

func (s *CartService) Total(ctx context.Context) (decimal.Decimal, error) {
	lines, err := s.Items(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total, nil
}

func (s *CartService) Clear(ctx context.Context) error {
	if err := s.cart.Clear(ctx); err != nil {
		return fail(s.log, "cart.clear", err)
	}
	return nil
}

// Sync makes the signed-in user's server cart mirror the local one.
func (s *CartService) Sync(ctx context.Context) error {
	lines, err := s.cart.Lines(ctx)
	if err != nil {
		return fail(s.log, "cart.sync", err)
	}
	server, err := s.api.Cart(ctx)
	if err != nil {
		return fail(s.log, "cart.sync", err)
	}
	remoteQty := make(map[int64]int, len(server))
	for _, it := range server {
		remoteQty[it.ProductID] = it.Quantity
	}
	for _, l := range lines {
		have, ok := remoteQty[l.ProductID]
		delete(remoteQty, l.ProductID)
		if ok && have == l.Quantity {
			continue
		}
		if ok {
			if err := s.api.RemoveFromCart(ctx, l.ProductID); err != nil {
				return fail(s.log, "cart.sync", err)
			}
		}
		if err := s.api.AddToCart(ctx, l.ProductID, l.Quantity); err != nil {
			return fail(s.log, "cart.sync", err)
		}
	}
	for pid := range remoteQty {
		if err := s.api.RemoveFromCart(ctx, pid); err != nil {
			return fail(s.log, "cart.sync", err)
		}
	}
	s.log.Debug("cart synced", "lines", len(lines))
	return nil
}
