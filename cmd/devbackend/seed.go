package main

import (
	"github.com/shopspring/decimal"

	"shoppingCart/internal/devserver"
	"shoppingCart/internal/remote"
)

func seed(s *devserver.Server) {
	price := decimal.RequireFromString
	s.SeedProducts(
		remote.ProductDTO{ID: 1, Name: "Whole milk 1L", Price: price("1.20"), Barcode: "8938508475056", Category: "dairy", Size: "1L"},
		remote.ProductDTO{ID: 2, Name: "Sourdough bread", Price: price("2.50"), Barcode: "4006381333931", Category: "bakery", Size: "500g"},
		remote.ProductDTO{ID: 3, Name: "Free range eggs", Price: price("3.10"), Barcode: "5000112637922", Category: "dairy", Size: "12"},
		remote.ProductDTO{ID: 4, Name: "Basmati rice", Price: price("4.75"), Barcode: "8901030865278", Category: "pantry", Size: "2kg"},
		remote.ProductDTO{ID: 5, Name: "Olive oil", Price: price("7.90"), Barcode: "8410660051017", Category: "pantry", Size: "750ml"},
		remote.ProductDTO{ID: 6, Name: "Loose apples", Price: price("0.40"), Category: "produce"},
	)

	s.SetOffers("8938508475056",
		remote.OfferDTO{Store: "Corner Market", Price: price("1.15"), Currency: "EUR", Lat: 52.5205, Lng: 13.4095},
		remote.OfferDTO{Store: "MegaMart", Price: price("1.05"), Currency: "EUR", Lat: 52.4900, Lng: 13.3500},
		remote.OfferDTO{Store: "Bio Laden", Price: price("1.45"), Currency: "EUR"},
	)
	s.SetOffers("8410660051017",
		remote.OfferDTO{Store: "MegaMart", Price: price("7.49"), Currency: "EUR", Lat: 52.4900, Lng: 13.3500},
		remote.OfferDTO{Store: "Deli Sud", Price: price("8.20"), Currency: "EUR", Lat: 52.4800, Lng: 13.4300},
	)
}
