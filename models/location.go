package models

// Location is a saved delivery address. Lat/Lng are optional and only used
// for distance ordering.
type Location struct {
	ID         int64    `db:"id" json:"id"`
	UserID     int64    `db:"user_id" json:"user_id"`
	Label      string   `db:"label" json:"label" validate:"required,max=40"`
	Recipient  string   `db:"recipient" json:"recipient" validate:"required,max=80"`
	Phone      string   `db:"phone" json:"phone" validate:"required,phone"`
	Street     string   `db:"street" json:"street" validate:"required,max=200"`
	City       string   `db:"city" json:"city" validate:"required,max=80"`
	PostalCode string   `db:"postal_code" json:"postal_code" validate:"required,numeric,min=4,max=10"`
	Country    string   `db:"country" json:"country" validate:"required,iso3166_1_alpha2"`
	Lat        *float64 `db:"lat" json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng        *float64 `db:"lng" json:"lng,omitempty" validate:"omitempty,longitude"`
}
