package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"shoppingCart/internal/geo"
	"shoppingCart/internal/remote"
	"shoppingCart/models"
	"shoppingCart/repository"
)

const compareConcurrency = 4

// PriceService compares store prices through the third-party price API.
type PriceService struct {
	prices *remote.PriceClient
	cart   repository.CartRepositoryI
	log    *slog.Logger
}

func NewPriceService(prices *remote.PriceClient, cart repository.CartRepositoryI, log *slog.Logger) *PriceService {
	return &PriceService{prices: prices, cart: cart, log: orDefault(log)}
}

// Compare returns the offers for barcode, cheapest first. When from is set, offers
// with coordinates get a distance and equal prices are ordered nearest first.
func (s *PriceService) Compare(ctx context.Context, barcode string, from *geo.Point) ([]models.PriceOffer, error) {
	offers, err := s.compare(ctx, barcode, from)
	if err != nil {
		return nil, fail(s.log, "price.compare", err)
	}
	return offers, nil
}

func (s *PriceService) compare(ctx context.Context, barcode string, from *geo.Point) ([]models.PriceOffer, error) {
	dtos, err := s.prices.Offers(ctx, barcode)
	if err != nil {
		return nil, err
	}
	out := make([]models.PriceOffer, 0, len(dtos))
	for _, d := range dtos {
		o := d.ToDomain()
		if from != nil && (o.Lat != 0 || o.Lng != 0) {
			km := from.DistanceKm(geo.Point{Lat: o.Lat, Lng: o.Lng})
			o.DistanceKm = &km
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Price.Cmp(out[j].Price); c != 0 {
			return c < 0
		}
		di, dj := out[i].DistanceKm, out[j].DistanceKm
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
	return out, nil
}

// CompareCart fetches offers for every cart line that has a barcode, a few at a time.
// The result is keyed by product id.
func (s *PriceService) CompareCart(ctx context.Context, from *geo.Point) (map[int64][]models.PriceOffer, error) {
	lines, err := s.cart.Lines(ctx)
	if err != nil {
		return nil, fail(s.log, "price.compare_cart", err)
	}

	var mu sync.Mutex
	out := make(map[int64][]models.PriceOffer, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(compareConcurrency)
	for _, l := range lines {
		if l.Product.Barcode == "" {
			continue
		}
		l := l
		g.Go(func() error {
			offers, err := s.compare(gctx, l.Product.Barcode, from)
			if err != nil {
				return err
			}
			mu.Lock()
			out[l.ProductID] = offers
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fail(s.log, "price.compare_cart", err)
	}
	return out, nil
}
