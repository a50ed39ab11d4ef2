package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shoppingCart/internal/apperr"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestClient_ProductsAndBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/products" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"id":1,"name":"Milk","price":"1.25","image":"m.png"},{"id":0,"name":"broken"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", time.Second, staticToken("tok"))
	dtos, err := c.Products(context.Background())
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	ps := ProductsToDomain(dtos)
	if len(ps) != 1 || ps[0].Name != "Milk" || ps[0].Price.String() != "1.25" || ps[0].ImageURL != "m.png" {
		t.Fatalf("mapped = %+v", ps)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   apperr.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"token expired"}`, apperr.KindUnauthorized},
		{"forbidden", http.StatusForbidden, "", apperr.KindForbidden},
		{"no content", http.StatusNoContent, "", apperr.KindEmpty},
		{"server error", http.StatusInternalServerError, "boom", apperr.KindNetwork},
		{"bad json", http.StatusOK, `{"id":`, apperr.KindUnknown},
		{"null body", http.StatusOK, `null`, apperr.KindEmpty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second, nil).Product(context.Background(), 7)
			var ae *apperr.Error
			if !errors.As(err, &ae) {
				t.Fatalf("want *apperr.Error, got %T %v", err, err)
			}
			if ae.Kind != tc.want {
				t.Fatalf("kind = %s, want %s (%v)", ae.Kind, tc.want, err)
			}
		})
	}
}

func TestClient_UnreachableIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second, nil).Orders(context.Background())
	if !errors.Is(err, apperr.ErrNetwork) {
		t.Fatalf("want network error, got %v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	err := NewClient(srv.URL, 50*time.Millisecond, nil).AddToCart(context.Background(), 1, 1)
	if !errors.Is(err, apperr.ErrNetwork) {
		t.Fatalf("want network error on timeout, got %v", err)
	}
}

func TestPriceClient_APIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "k1" || r.URL.Query().Get("barcode") != "123" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"offers":[{"store":"A","price":"2.00","currency":"USD"}]}`))
	}))
	defer srv.Close()

	offers, err := NewPriceClient(srv.URL, "k1", time.Second).Offers(context.Background(), "123")
	if err != nil || len(offers) != 1 || offers[0].Store != "A" {
		t.Fatalf("offers = %+v err = %v", offers, err)
	}
	_, err = NewPriceClient(srv.URL, "wrong", time.Second).Offers(context.Background(), "123")
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("want forbidden, got %v", err)
	}
}

func TestDTO_ToDomain(t *testing.T) {
	var nilUser *UserDTO
	if _, err := nilUser.ToDomain(); !errors.Is(err, apperr.ErrEmpty) {
		t.Fatalf("nil user should be empty, got %v", err)
	}
	u, err := (&UserDTO{Email: "a@b.c", Role: "ADMIN"}).ToDomain()
	if err != nil || !u.IsAdmin() {
		t.Fatalf("user = %+v err = %v", u, err)
	}
	o, err := (&OrderDTO{ID: "o1", Status: "weird", PaymentMethod: "cash", Items: []OrderItemDTO{{ProductID: 2, Quantity: 3}}}).ToDomain()
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if o.Status != "pending" || len(o.Items) != 1 || o.Items[0].OrderID != "o1" || o.Payment == nil {
		t.Fatalf("order = %+v", o)
	}
}
