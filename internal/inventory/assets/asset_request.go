package assets

type CreateAssetsRequest struct {
	ProductID      int            `json:"product_id" validate:"required,gt=0"`
	LocationID     int            `json:"location_id" validate:"required,gt=0"`
	Quantity       int            `json:"quantity" validate:"gte=1"`
	Condition      string         `json:"condition" validate:"required,oneof=Good Fair Damaged"`
	PurchasedYear  *int           `json:"purchased_year,omitempty" validate:"omitempty,gt=0"`
	EstimatedPrice *float64       `json:"estimated_price,omitempty" validate:"omitempty,gte=0"`
	Attributes     map[string]any `json:"attributes,omitempty"`
}

// UpdateAssetRequest carries only the fields an asset may change after
// provisioning. Product, location and serial number are fixed.
type UpdateAssetRequest struct {
	Condition      *string        `json:"condition,omitempty" validate:"omitempty,oneof=Good Fair Damaged"`
	PurchasedYear  *int           `json:"purchased_year,omitempty" validate:"omitempty,gt=0"`
	EstimatedPrice *float64       `json:"estimated_price,omitempty" validate:"omitempty,gte=0"`
	Attributes     map[string]any `json:"attributes,omitempty"`
}

// ListAssetsRequest is the query string of the asset register.
type ListAssetsRequest struct {
	Page         int    `form:"page" json:"page" validate:"gte=0"`
	Limit        int    `form:"limit" json:"limit" validate:"gte=0,lte=100"`
	SortBy       string `form:"sortBy" json:"sortBy" validate:"omitempty,oneof=createdAt serialNumber productName locationName brandName condition purchasedYear estimatedPrice"`
	Order        string `form:"order" json:"order" validate:"omitempty,oneof=asc desc"`
	Q            string `form:"q" json:"q"`
	SerialNumber string `form:"serialNumber" json:"serialNumber"`
	ProductID    int    `form:"productId" json:"productId" validate:"gte=0"`
	ProductName  string `form:"productName" json:"productName"`
	LocationID   int    `form:"locationId" json:"locationId" validate:"gte=0"`
	LocationName string `form:"locationName" json:"locationName"`
	BrandName    string `form:"brandName" json:"brandName"`
	Condition    string `form:"condition" json:"condition" validate:"omitempty,oneof=Good Fair Damaged"`
}
