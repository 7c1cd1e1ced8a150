package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SarprasYP/sispras/pkg/metadata"
)

type Asset struct {
	ID             int                `json:"id"`
	Product        Product            `json:"product"`
	Location       Location           `json:"location"`
	SerialNumber   string             `json:"serial_number"`
	Condition      metadata.Condition `json:"condition"`
	PurchasedYear  *int               `json:"purchased_year,omitempty"`
	EstimatedPrice *float64           `json:"estimated_price,omitempty"`
	Attributes     map[string]any     `json:"attributes,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// AssetChanges holds the editable, non-identity fields of an asset.
type AssetChanges struct {
	Condition      *metadata.Condition
	PurchasedYear  *int
	EstimatedPrice *float64
	Attributes     map[string]any
}

func (c AssetChanges) IsEmpty() bool {
	return c.Condition == nil && c.PurchasedYear == nil && c.EstimatedPrice == nil && c.Attributes == nil
}

type FlatAssetRecord struct {
	ID                     int       `db:"asset_id"`
	SerialNumber           string    `db:"serial_number"`
	Condition              string    `db:"condition"`
	PurchasedYear          *int      `db:"purchased_year"`
	EstimatedPrice         *float64  `db:"estimated_price"`
	Attributes             []byte    `db:"attributes"`
	CreatedAt              time.Time `db:"created_at"`
	UpdatedAt              time.Time `db:"updated_at"`
	ProductID              int       `db:"product_id"`
	ProductName            string    `db:"product_name"`
	ProductCode            string    `db:"product_code"`
	ProductMeasurementUnit string    `db:"product_measurement_unit"`
	BrandID                *int      `db:"brand_id"`
	BrandName              *string   `db:"brand_name"`
	LocationID             int       `db:"location_id"`
	LocationName           string    `db:"location_name"`
	LocationBuilding       string    `db:"location_building"`
	LocationFloor          string    `db:"location_floor"`
}

func (fa *FlatAssetRecord) TransformToAsset() (Asset, error) {
	var attributes map[string]any
	if len(fa.Attributes) > 0 {
		if err := json.Unmarshal(fa.Attributes, &attributes); err != nil {
			return Asset{}, fmt.Errorf("failed to unmarshal attributes: %w", err)
		}
	}

	asset := Asset{
		ID:             fa.ID,
		SerialNumber:   fa.SerialNumber,
		Condition:      metadata.Condition(fa.Condition),
		PurchasedYear:  fa.PurchasedYear,
		EstimatedPrice: fa.EstimatedPrice,
		Attributes:     attributes,
		CreatedAt:      fa.CreatedAt,
		UpdatedAt:      fa.UpdatedAt,
		Product: Product{
			ID:              fa.ProductID,
			Name:            fa.ProductName,
			ProductCode:     fa.ProductCode,
			MeasurementUnit: fa.ProductMeasurementUnit,
			BrandID:         fa.BrandID,
		},
		Location: Location{
			ID:       fa.LocationID,
			Name:     fa.LocationName,
			Building: fa.LocationBuilding,
			Floor:    fa.LocationFloor,
		},
	}
	if fa.BrandID != nil && fa.BrandName != nil {
		asset.Product.Brand = &Brand{ID: *fa.BrandID, Name: *fa.BrandName}
	}

	return asset, nil
}
