package validate

import (
	"strings"
	"testing"

	"shoppingCart/models"
)

func TestStruct_Location(t *testing.T) {
	good := models.Location{Label: "Home", Recipient: "An", Phone: "+84 912 345 678", Street: "1 Trang Tien",
		City: "Hanoi", PostalCode: "100000", Country: "VN"}
	if err := Struct(good); err != nil {
		t.Fatalf("valid address rejected: %v", err)
	}

	bad := good
	bad.Phone = "call me"
	bad.PostalCode = "10A"
	bad.Country = "Vietnam"
	err := Struct(bad)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"phone must be a valid phone number", "postalcode must contain digits only", "country must be a two-letter country code"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("missing %q in %q", want, err)
		}
	}
}

func TestVar_CreditCard(t *testing.T) {
	if err := Var("4242424242424242", "credit_card"); err != nil {
		t.Fatalf("luhn-valid card rejected: %v", err)
	}
	if err := Var("4242424242424241", "credit_card"); err == nil {
		t.Fatalf("luhn-invalid card accepted")
	}
}

func TestStruct_RequiredNestedStruct(t *testing.T) {
	type window struct {
		From, To string
	}
	type slot struct {
		Window window `validate:"required"`
	}
	err := Struct(slot{})
	if err == nil || !strings.Contains(err.Error(), "window is required") {
		t.Fatalf("zero nested struct must fail required, got %v", err)
	}
	if err := Struct(slot{Window: window{From: "09:00"}}); err != nil {
		t.Fatalf("filled nested struct rejected: %v", err)
	}
}
