package models

import (
	"time"

	"github.com/SarprasYP/sispras/pkg/metadata"
)

// StockItem is the cached quantity of one consumable product. The log
// entries pointing at it are authoritative.
type StockItem struct {
	ID           int       `json:"id" db:"id"`
	ProductID    int       `json:"product_id" db:"product_id"`
	Quantity     int       `json:"quantity" db:"quantity"`
	Unit         string    `json:"unit" db:"unit"`
	ReorderPoint int       `json:"reorder_point" db:"reorder_point"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type StockLogEntry struct {
	ID              int                      `json:"id" db:"id"`
	StockItemID     int                      `json:"stock_item_id" db:"stock_item_id"`
	TransactionType metadata.TransactionType `json:"transaction_type" db:"transaction_type"`
	QuantityChanged int                      `json:"quantity_changed" db:"quantity_changed"`
	PersonName      string                   `json:"person_name" db:"person_name"`
	PersonRole      *string                  `json:"person_role,omitempty" db:"person_role"`
	Notes           *string                  `json:"notes,omitempty" db:"notes"`
	UserID          *int                     `json:"user_id,omitempty" db:"user_id"`
	CreatedAt       time.Time                `json:"created_at" db:"created_at"`
}

// Delta is the signed change the entry applies to its stock item.
func (e StockLogEntry) Delta() int {
	return e.TransactionType.Signed(e.QuantityChanged)
}

type StockMovement struct {
	StockItem StockItem     `json:"stock_item"`
	LogEntry  StockLogEntry `json:"log_entry"`
}
