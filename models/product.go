package models

import "github.com/shopspring/decimal"

// Product is a catalog entry sourced from the remote backend and cached in `products`.
type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Description string          `db:"description" json:"description,omitempty"`
	Barcode     string          `db:"barcode" json:"barcode,omitempty"`
	Category    string          `db:"category" json:"category,omitempty"`
	Size        string          `db:"size" json:"size,omitempty"`
	ImageURL    string          `db:"image_url" json:"image_url,omitempty"`
}

// Bookmark marks a product as saved by the shopper.
type Bookmark struct {
	ProductID int64  `db:"product_id" json:"product_id"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// PriceOffer is one store's price for a product, as returned by the price comparison API.
type PriceOffer struct {
	Store    string          `json:"store"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	URL      string          `json:"url,omitempty"`
	Lat      float64         `json:"lat,omitempty"`
	Lng      float64         `json:"lng,omitempty"`
	// DistanceKm is filled in locally when the shopper's position is known.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}
