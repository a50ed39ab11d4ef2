package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/geo"
	"shoppingCart/models"
)

func ptr(v float64) *float64 { return &v }

func validLocation() *models.Location {
	return &models.Location{
		Label:      "Home",
		Recipient:  "An Tran",
		Phone:      "+84 912 345 678",
		Street:     "12 Trang Tien",
		City:       "Hanoi",
		PostalCode: "100000",
		Country:    "vn",
		Lat:        ptr(21.0245),
		Lng:        ptr(105.8570),
	}
}

func TestAddressValidate(t *testing.T) {
	s := NewAddressService(nil, nil, nil)

	l := validLocation()
	if err := s.Validate(l); err != nil {
		t.Fatalf("valid address: %v", err)
	}
	if l.Country != "VN" {
		t.Fatalf("country not normalised: %q", l.Country)
	}

	bad := validLocation()
	bad.Street = ""
	bad.Lat = ptr(123)
	err := s.Validate(bad)
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.KindCustom {
		t.Fatalf("want custom error, got %v", err)
	}
	if !strings.Contains(ae.Message, "street is required") || !strings.Contains(ae.Message, "lat") {
		t.Fatalf("message = %q", ae.Message)
	}
}

func TestAddressSaveListNearest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.addresses.Save(ctx, validLocation()); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("signed out: %v", err)
	}
	f.signIn(t, "addr@example.com")

	home, err := f.addresses.Save(ctx, validLocation())
	if err != nil {
		t.Fatalf("save home: %v", err)
	}
	work := validLocation()
	work.Label, work.City, work.Lat, work.Lng = "Work", "Ho Chi Minh City", ptr(10.7769), ptr(106.7009)
	if _, err := f.addresses.Save(ctx, work); err != nil {
		t.Fatalf("save work: %v", err)
	}
	noCoords := validLocation()
	noCoords.Label, noCoords.Lat, noCoords.Lng = "PO box", nil, nil
	if _, err := f.addresses.Save(ctx, noCoords); err != nil {
		t.Fatalf("save po box: %v", err)
	}

	ls, err := f.addresses.List(ctx)
	if err != nil || len(ls) != 3 {
		t.Fatalf("list = %d %v", len(ls), err)
	}
	near, err := f.addresses.Nearest(ctx, geo.Point{Lat: 10.8, Lng: 106.65})
	if err != nil || near.Label != "Work" {
		t.Fatalf("nearest = %+v %v", near, err)
	}

	if err := f.addresses.Delete(ctx, home.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.addresses.Delete(ctx, home.ID); !errors.Is(err, apperr.ErrEmpty) {
		t.Fatalf("delete twice: %v", err)
	}
}
