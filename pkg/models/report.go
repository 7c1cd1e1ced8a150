package models

import (
	"time"

	"github.com/SarprasYP/sispras/pkg/metadata"
)

// SystemActor labels log entries recorded without a user.
const SystemActor = "System"

type LowStockItem struct {
	StockItemID  int    `json:"stock_item_id" db:"stock_item_id"`
	ProductID    int    `json:"product_id" db:"product_id"`
	ProductName  string `json:"product_name" db:"product_name"`
	Quantity     int    `json:"quantity" db:"quantity"`
	Unit         string `json:"unit" db:"unit"`
	ReorderPoint int    `json:"reorder_point" db:"reorder_point"`
}

type AssetSummaryRow struct {
	ProductID      int      `json:"product_id" db:"product_id"`
	LocationID     int      `json:"location_id" db:"location_id"`
	ProductName    string   `json:"product_name" db:"product_name"`
	BrandName      string   `json:"brand_name" db:"brand_name"`
	Room           string   `json:"room" db:"location_name"`
	Building       string   `json:"building" db:"building"`
	Floor          string   `json:"floor" db:"floor"`
	PurchasedYear  *int     `json:"purchased_year" db:"purchased_year"`
	EstimatedPrice *float64 `json:"estimated_price" db:"estimated_price"`
	Count          int      `json:"count" db:"count"`
}

type AssetSummaryFilters struct {
	Q              string
	ProductName    string
	LocationName   string
	BrandName      string
	EstimatedPrice *float64
}

type AssetSummaryQuery struct {
	Page    int
	Limit   int
	SortBy  string
	Desc    bool
	Filters AssetSummaryFilters
}

type Pagination struct {
	TotalItems  int `json:"total_items"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	Limit       int `json:"limit"`
}

type AssetSummaryPage struct {
	Rows       []AssetSummaryRow `json:"rows"`
	Pagination Pagination        `json:"pagination"`
}

type ActivityEntry struct {
	ID              int                      `json:"id" db:"id"`
	StockItemID     int                      `json:"stock_item_id" db:"stock_item_id"`
	ProductName     string                   `json:"product_name" db:"product_name"`
	TransactionType metadata.TransactionType `json:"transaction_type" db:"transaction_type"`
	QuantityChanged int                      `json:"quantity_changed" db:"quantity_changed"`
	PersonName      string                   `json:"person_name" db:"person_name"`
	PersonRole      *string                  `json:"person_role,omitempty" db:"person_role"`
	Notes           *string                  `json:"notes,omitempty" db:"notes"`
	RecordedBy      string                   `json:"recorded_by" db:"recorded_by"`
	CreatedAt       time.Time                `json:"created_at" db:"created_at"`
}

type DashboardSummary struct {
	TotalAssets int `json:"total_assets" db:"total_assets"`
	TotalStock  int `json:"total_stock" db:"total_stock"`
}

// Sort keys accepted for the asset summary.
const (
	SortProductName    = "productName"
	SortBrandName      = "brandName"
	SortRoom           = "room"
	SortBuilding       = "building"
	SortFloor          = "floor"
	SortCount          = "count"
	SortPurchasedYear  = "purchasedYear"
	SortEstimatedPrice = "estimatedPrice"
)
