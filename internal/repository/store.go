package repository

import (
	"context"

	"github.com/SarprasYP/sispras/pkg/models"
)

// Catalog resolves the reference data the inventory core reads but never writes.
// Missing rows are reported as custom_error.NotFound.
type Catalog interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	GetLocation(ctx context.Context, id int) (*models.Location, error)
}

// ProvisioningTx is the unit of work used by bulk asset creation.
type ProvisioningTx interface {
	Catalog
	// NextSequence reserves n consecutive sequence numbers for the
	// (productCode, locationID) pair and returns the first one. A pair
	// without a counter is seeded from the number of assets already
	// carrying that product code at that location.
	NextSequence(ctx context.Context, productCode string, locationID, n int) (int, error)
	InsertAssets(ctx context.Context, assets []models.Asset) ([]models.Asset, error)
}

type AssetStore interface {
	RunProvisioning(ctx context.Context, fn func(tx ProvisioningTx) error) error
	GetAsset(ctx context.Context, id int) (*models.Asset, error)
	// ListAssets returns one page of the asset register and the number of
	// assets matching the filters.
	ListAssets(ctx context.Context, query models.AssetListQuery) ([]models.Asset, int, error)
	UpdateAsset(ctx context.Context, id int, changes models.AssetChanges) (*models.Asset, error)
	DeleteAsset(ctx context.Context, id int) error
}

// LedgerTx is the unit of work for a single restock or usage.
type LedgerTx interface {
	GetConsumable(ctx context.Context, productID int) (*models.ConsumableProduct, error)
	// EnsureStockItem returns the stock item of productID, creating it with
	// quantity 0 and the given unit when absent.
	EnsureStockItem(ctx context.Context, productID int, unit string) (*models.StockItem, error)
	IncreaseQuantity(ctx context.Context, stockItemID, quantity int) (*models.StockItem, error)
	// DecreaseQuantity applies the decrement only when enough stock is on hand,
	// failing with NotFound or InsufficientStock otherwise.
	DecreaseQuantity(ctx context.Context, stockItemID, quantity int) (*models.StockItem, error)
	AppendLogEntry(ctx context.Context, entry models.StockLogEntry) (*models.StockLogEntry, error)
}

type LedgerStore interface {
	RunLedger(ctx context.Context, fn func(tx LedgerTx) error) error
	GetStockItem(ctx context.Context, id int) (*models.StockItem, error)
	ListStockItems(ctx context.Context) ([]models.StockItem, error)
	// ListLogEntries returns the entries of one stock item in recording order.
	ListLogEntries(ctx context.Context, stockItemID int) ([]models.StockLogEntry, error)
	// Snapshot reads a stock item and its log entries from one consistent
	// view, so no ledger write can land between the two reads.
	Snapshot(ctx context.Context, stockItemID int) (*models.StockItem, []models.StockLogEntry, error)
	ListStock(ctx context.Context, query models.StockListQuery) ([]models.StockView, int, error)
	ListLog(ctx context.Context, query models.LogListQuery) ([]models.ActivityEntry, int, error)
}

type ReportStore interface {
	LowStock(ctx context.Context, limit int) ([]models.LowStockItem, error)
	AssetSummary(ctx context.Context, query models.AssetSummaryQuery) ([]models.AssetSummaryRow, int, error)
	RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error)
	Totals(ctx context.Context) (models.DashboardSummary, error)
}

type UserStore interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}
