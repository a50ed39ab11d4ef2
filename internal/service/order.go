package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/remote"
	"shoppingCart/internal/session"
	"shoppingCart/models"
	"shoppingCart/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	cursorSeparator = "|"
)

type OrderService struct {
	orders    repository.OrderRepositoryI
	cards     repository.CardRepositoryI
	locations repository.LocationRepositoryI
	api       *remote.Client
	state     *session.State
	log       *slog.Logger

	// checkout is held for the whole of Checkout so a double submit sees the emptied cart.
	checkout sync.Mutex
}

func NewOrderService(orders repository.OrderRepositoryI, cards repository.CardRepositoryI, locations repository.LocationRepositoryI, api *remote.Client, state *session.State, log *slog.Logger) *OrderService {
	return &OrderService{orders: orders, cards: cards, locations: locations, api: api, state: state, log: orDefault(log)}
}

// CheckoutInput selects how the order is paid and where it goes.
type CheckoutInput struct {
	Method    models.PaymentMethod
	CardID    *int64
	AddressID *int64
}

// Checkout turns the cart into an order with a payment record and one item per cart
// line, then empties the cart. All of it is one local transaction.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	u, err := requireUser(s.state)
	if err != nil {
		return nil, err
	}
	if in.Method == "" {
		in.Method = models.PaymentCash
	}
	switch in.Method {
	case models.PaymentCash:
		in.CardID = nil
	case models.PaymentCard:
		if in.CardID == nil {
			return nil, apperr.Custom("select a card to pay with")
		}
		card, err := s.cards.GetByID(ctx, *in.CardID)
		if err != nil {
			return nil, fail(s.log, "order.checkout", err)
		}
		if card == nil || card.UserID != u.ID {
			return nil, apperr.Custom("the selected card is not available")
		}
	default:
		return nil, apperr.Custom(fmt.Sprintf("unsupported payment method %q", in.Method))
	}
	if in.AddressID != nil {
		loc, err := s.locations.GetByID(ctx, *in.AddressID)
		if err != nil {
			return nil, fail(s.log, "order.checkout", err)
		}
		if loc == nil || loc.UserID != u.ID {
			return nil, apperr.Custom("the selected address is not available")
		}
	}

	s.checkout.Lock()
	defer s.checkout.Unlock()

	o := &models.Order{ID: uuid.NewString(), UserID: u.ID, AddressID: in.AddressID}
	created, err := s.orders.CreateFromCart(ctx, o, &models.OrderPayment{Method: in.Method, CardID: in.CardID})
	if errors.Is(err, repository.ErrEmptyCart) {
		return nil, apperr.Empty("your cart is empty")
	}
	if err != nil {
		return nil, fail(s.log, "order.checkout", err)
	}
	s.log.Info("order placed", "order_id", created.ID, "user_id", u.ID, "items", len(created.Items), "total", created.Total.String())
	return created, nil
}

// Submit sends a locally placed order to the backend.
func (s *OrderService) Submit(ctx context.Context, id string) (*models.Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req := remote.PlaceOrderRequest{ID: o.ID, PaymentMethod: string(models.PaymentCash)}
	if o.Payment != nil {
		req.PaymentMethod = string(o.Payment.Method)
	}
	for _, it := range o.Items {
		req.Items = append(req.Items, remote.CartItemDTO{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	dto, err := s.api.PlaceOrder(ctx, req)
	if err != nil {
		return nil, fail(s.log, "order.submit", err)
	}
	out, err := dto.ToDomain()
	if err != nil {
		return nil, fail(s.log, "order.submit", err)
	}
	out.UserID = o.UserID
	return out, nil
}

// History returns a page of the signed-in user's orders, newest first, and the token
// for the next page ("" when there are no more).
func (s *OrderService) History(ctx context.Context, pageSize int, pageToken string) ([]models.Order, string, error) {
	u, err := requireUser(s.state)
	if err != nil {
		return nil, "", err
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	var after repository.OrderCursor
	if pageToken != "" {
		if after, err = decodeCursor(pageToken); err != nil {
			return nil, "", apperr.Custom("invalid page token")
		}
	}
	list, next, err := s.orders.ListByUserIDPage(ctx, u.ID, pageSize, after)
	if err != nil {
		return nil, "", fail(s.log, "order.history", err)
	}
	nextToken := ""
	if next.Seq > 0 {
		nextToken = encodeCursor(next)
	}
	return list, nextToken, nil
}

// Get returns one of the signed-in user's orders with items and payment.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	u, err := requireUser(s.state)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fail(s.log, "order.get", err)
	}
	if o == nil {
		return nil, apperr.Empty("order not found")
	}
	if o.UserID != u.ID && !u.IsAdmin() {
		return nil, apperr.Forbidden("this order belongs to another user")
	}
	return o, nil
}

// Cancel moves a pending order to cancelled.
func (s *OrderService) Cancel(ctx context.Context, id string) (*models.Order, error) {
	return s.transition(ctx, "order.cancel", id, models.OrderStatusCancelled, models.OrderStatusPending)
}

// MarkDelivered closes a pending or shipped order.
func (s *OrderService) MarkDelivered(ctx context.Context, id string) (*models.Order, error) {
	return s.transition(ctx, "order.mark_delivered", id, models.OrderStatusDelivered, models.OrderStatusShipped, models.OrderStatusPending)
}

func (s *OrderService) transition(ctx context.Context, op, id string, to models.OrderStatus, from ...models.OrderStatus) (*models.Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, f := range from {
		ok, err := s.orders.CompareAndSetStatus(ctx, id, f, to)
		if err != nil {
			return nil, fail(s.log, op, err)
		}
		if ok {
			o.Status = to
			s.log.Info("order status changed", "order_id", id, "from", f, "to", to)
			return o, nil
		}
	}
	return nil, apperr.Custom(fmt.Sprintf("order is %s and cannot become %s", o.Status, to))
}

// RemoteHistory lists the orders the backend holds for the signed-in user.
func (s *OrderService) RemoteHistory(ctx context.Context) ([]models.Order, error) {
	dtos, err := s.api.Orders(ctx)
	if err != nil {
		return nil, fail(s.log, "order.remote_history", err)
	}
	out := make([]models.Order, 0, len(dtos))
	for i := range dtos {
		o, err := dtos[i].ToDomain()
		if err != nil {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

// encodeCursor builds an opaque page token from the last row's timestamp and rowid.
func encodeCursor(c repository.OrderCursor) string {
	raw := c.CreatedAt + cursorSeparator + strconv.FormatInt(c.Seq, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(token string) (repository.OrderCursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return repository.OrderCursor{}, fmt.Errorf("base64: %w", err)
	}
	i := strings.LastIndex(string(b), cursorSeparator)
	if i <= 0 {
		return repository.OrderCursor{}, errors.New("invalid cursor format")
	}
	seq, err := strconv.ParseInt(string(b[i+1:]), 10, 64)
	if err != nil || seq <= 0 {
		return repository.OrderCursor{}, errors.New("invalid cursor sequence")
	}
	return repository.OrderCursor{CreatedAt: string(b[:i]), Seq: seq}, nil
}
