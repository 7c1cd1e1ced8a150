package models

type Brand struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Product is a fixed-asset catalog entry.
type Product struct {
	ID              int    `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	ProductCode     string `json:"product_code" db:"product_code"`
	BrandID         *int   `json:"brand_id,omitempty" db:"brand_id"`
	MeasurementUnit string `json:"measurement_unit" db:"measurement_unit"`
	Brand           *Brand `json:"brand,omitempty" db:"-"`
}

// ConsumableProduct is a catalog entry tracked by quantity rather than by unit.
type ConsumableProduct struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	ProductCode string `json:"product_code" db:"product_code"`
	Category    string `json:"category" db:"category"`
}
