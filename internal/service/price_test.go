package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/geo"
	"shoppingCart/internal/remote"
	"shoppingCart/models"
	"shoppingCart/repository"
)

func TestCompare_SortsByPriceThenDistance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.backend.SetOffers(milkBarcode,
		remote.OfferDTO{Store: "Far", Price: decimal.RequireFromString("1.10"), Currency: "USD", Lat: 10.8, Lng: 106.6},
		remote.OfferDTO{Store: "Pricey", Price: decimal.RequireFromString("1.50"), Currency: "USD"},
		remote.OfferDTO{Store: "Near", Price: decimal.RequireFromString("1.10"), Currency: "USD", Lat: 21.03, Lng: 105.85},
		remote.OfferDTO{Store: "Online", Price: decimal.RequireFromString("1.10"), Currency: "USD"},
	)

	hanoi := &geo.Point{Lat: 21.0285, Lng: 105.8542}
	offers, err := f.prices.Compare(ctx, milkBarcode, hanoi)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	want := []string{"Near", "Far", "Online", "Pricey"}
	for i, w := range want {
		if offers[i].Store != w {
			t.Fatalf("order = %v, want %v", stores(offers), want)
		}
	}
	if offers[0].DistanceKm == nil || *offers[0].DistanceKm > 1 {
		t.Fatalf("near distance = %v", offers[0].DistanceKm)
	}
	if offers[2].DistanceKm != nil {
		t.Fatalf("offer without coordinates got a distance")
	}

	none, err := f.prices.Compare(ctx, "nothing", nil)
	if err != nil || len(none) != 0 {
		t.Fatalf("no offers = %v %v", none, err)
	}
}

func TestCompareCart(t *testing.T) {
	f := newFixture(t)
	f.syncCatalog(t)
	ctx := context.Background()
	f.backend.SetOffers(milkBarcode, remote.OfferDTO{Store: "A", Price: decimal.RequireFromString("1"), Currency: "USD"})
	f.backend.SetOffers("4006381333931", remote.OfferDTO{Store: "B", Price: decimal.RequireFromString("2"), Currency: "USD"})

	for _, id := range []int64{1, 2, 4} {
		if _, err := f.cart.Toggle(ctx, id); err != nil {
			t.Fatalf("toggle %d: %v", id, err)
		}
	}
	got, err := f.prices.CompareCart(ctx, nil)
	if err != nil {
		t.Fatalf("compare cart: %v", err)
	}
	if len(got) != 2 || got[1][0].Store != "A" || got[2][0].Store != "B" {
		t.Fatalf("offers = %+v", got)
	}

	bad := NewPriceService(remote.NewPriceClient(f.baseURL+"/price", "wrong-key", 0), repository.NewCartRepository(f.db), nil)
	if _, err := bad.CompareCart(ctx, nil); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("bad api key: %v", err)
	}
}

func stores(offers []models.PriceOffer) []string {
	out := make([]string, 0, len(offers))
	for _, o := range offers {
		out = append(out, o.Store)
	}
	return out
}
