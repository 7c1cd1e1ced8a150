package reports

import (
	"strings"

	"github.com/SarprasYP/sispras/pkg/models"
)

type SummaryRequest struct {
	Page           int      `form:"page" json:"page" validate:"gte=0"`
	Limit          int      `form:"limit" json:"limit" validate:"gte=0,lte=100"`
	SortBy         string   `form:"sortBy" json:"sortBy" validate:"omitempty,oneof=productName brandName room building floor count purchasedYear estimatedPrice"`
	Order          string   `form:"order" json:"order" validate:"omitempty,oneof=asc desc"`
	Q              string   `form:"q" json:"q"`
	ProductName    string   `form:"productName" json:"productName"`
	LocationName   string   `form:"locationName" json:"locationName"`
	BrandName      string   `form:"brandName" json:"brandName"`
	EstimatedPrice *float64 `form:"estimatedPrice" json:"estimatedPrice"`
}

var sortAliases = map[string]string{
	"product":         models.SortProductName,
	"product_name":    models.SortProductName,
	"brand":           models.SortBrandName,
	"brand_name":      models.SortBrandName,
	"location":        models.SortRoom,
	"locationName":    models.SortRoom,
	"location_name":   models.SortRoom,
	"jumlah":          models.SortCount,
	"purchased_year":  models.SortPurchasedYear,
	"estimated_price": models.SortEstimatedPrice,
}

func (r *SummaryRequest) normalize() {
	r.SortBy = strings.TrimSpace(r.SortBy)
	if canonical, ok := sortAliases[r.SortBy]; ok {
		r.SortBy = canonical
	}
	r.Order = strings.ToLower(strings.TrimSpace(r.Order))
	r.Q = strings.TrimSpace(r.Q)
	r.ProductName = strings.TrimSpace(r.ProductName)
	r.LocationName = strings.TrimSpace(r.LocationName)
	r.BrandName = strings.TrimSpace(r.BrandName)
}
