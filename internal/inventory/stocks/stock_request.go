package stocks

type RestockRequest struct {
	ProductID  int     `json:"product_id" validate:"required,gt=0"`
	Quantity   int     `json:"quantity" validate:"gte=1"`
	Unit       string  `json:"unit" validate:"notblank"`
	PersonName string  `json:"person_name" validate:"notblank"`
	PersonRole *string `json:"person_role,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type UsageRequest struct {
	StockItemID int     `json:"stock_item_id" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"gte=1"`
	PersonName  string  `json:"person_name" validate:"notblank"`
	PersonRole  *string `json:"person_role,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

type ListStockRequest struct {
	Page   int    `form:"page" json:"page" validate:"gte=0"`
	Limit  int    `form:"limit" json:"limit" validate:"gte=0,lte=100"`
	SortBy string `form:"sortBy" json:"sortBy" validate:"omitempty,oneof=productName productCode quantity updatedAt"`
	Order  string `form:"order" json:"order" validate:"omitempty,oneof=asc desc"`
	Q      string `form:"q" json:"q"`
}

type ListLogRequest struct {
	Page            int    `form:"page" json:"page" validate:"gte=0"`
	Limit           int    `form:"limit" json:"limit" validate:"gte=0,lte=100"`
	Order           string `form:"order" json:"order" validate:"omitempty,oneof=asc desc"`
	StockItemID     int    `form:"stockItemId" json:"stockItemId" validate:"gte=0"`
	TransactionType string `form:"transactionType" json:"transactionType" validate:"omitempty,oneof=restock usage"`
	Q               string `form:"q" json:"q"`
}
