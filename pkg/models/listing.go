package models

// Sort keys accepted by the asset register.
const (
	AssetSortCreatedAt      = "createdAt"
	AssetSortSerialNumber   = "serialNumber"
	AssetSortProductName    = "productName"
	AssetSortLocationName   = "locationName"
	AssetSortBrandName      = "brandName"
	AssetSortCondition      = "condition"
	AssetSortPurchasedYear  = "purchasedYear"
	AssetSortEstimatedPrice = "estimatedPrice"
)

// Sort keys accepted by the consumable stock list.
const (
	StockSortProductName = "productName"
	StockSortProductCode = "productCode"
	StockSortQuantity    = "quantity"
	StockSortUpdatedAt   = "updatedAt"
)

type AssetListFilters struct {
	// Q matches serial number, product, location, brand or condition.
	Q            string
	SerialNumber string
	ProductID    int
	ProductName  string
	LocationID   int
	LocationName string
	BrandName    string
	Condition    string
}

type AssetListQuery struct {
	Page    int
	Limit   int
	SortBy  string
	Desc    bool
	Filters AssetListFilters
}

type AssetPage struct {
	Data       []Asset    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// StockView is a stock item joined with its consumable product.
type StockView struct {
	StockItem
	ProductName string `json:"product_name" db:"product_name"`
	ProductCode string `json:"product_code" db:"product_code"`
	Category    string `json:"category" db:"category"`
}

type StockListQuery struct {
	Page   int
	Limit  int
	SortBy string
	Desc   bool
	// Q matches product name or product code.
	Q string
}

type StockPage struct {
	Data       []StockView `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type LogListQuery struct {
	Page            int
	Limit           int
	Desc            bool
	StockItemID     int
	TransactionType string
	// Q matches product name or person name.
	Q string
}

type LogPage struct {
	Data       []ActivityEntry `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// NewPagination describes page of a result set of total items. limit must be positive.
func NewPagination(total, page, limit int) Pagination {
	return Pagination{
		TotalItems:  total,
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
		Limit:       limit,
	}
}

// Offset is the number of rows skipped before page.
func Offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}
