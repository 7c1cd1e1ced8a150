package reports

import (
	"context"

	"github.com/SarprasYP/sispras/internal/repository"
	"github.com/SarprasYP/sispras/pkg/models"
	"github.com/SarprasYP/sispras/pkg/validation"
)

const (
	DefaultLowStockLimit = 5
	DefaultRecentLimit   = 7
	DefaultSummaryLimit  = 10
	MaxListLimit         = 100
)

type ReportService struct {
	store repository.ReportStore
}

func NewReportService(store repository.ReportStore) *ReportService {
	return &ReportService{store: store}
}

// GetLowStock lists stock items at or below their reorder point, lowest
// quantity first.
func (s *ReportService) GetLowStock(ctx context.Context, limit int) ([]models.LowStockItem, error) {
	items, err := s.store.LowStock(ctx, clampLimit(limit, DefaultLowStockLimit))
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.LowStockItem{}
	}
	return items, nil
}

func (s *ReportService) GetRecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	entries, err := s.store.RecentActivity(ctx, clampLimit(limit, DefaultRecentLimit))
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.ActivityEntry{}
	}
	return entries, nil
}

// GetAssetSummary groups assets by product, brand and location and pages
// over the grouped rows.
func (s *ReportService) GetAssetSummary(ctx context.Context, req SummaryRequest) (*models.AssetSummaryPage, error) {
	req.normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	query := models.AssetSummaryQuery{
		Page:   req.Page,
		Limit:  req.Limit,
		SortBy: req.SortBy,
		Desc:   req.Order == "desc",
		Filters: models.AssetSummaryFilters{
			Q:              req.Q,
			ProductName:    req.ProductName,
			LocationName:   req.LocationName,
			BrandName:      req.BrandName,
			EstimatedPrice: req.EstimatedPrice,
		},
	}
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = DefaultSummaryLimit
	}
	if query.SortBy == "" {
		query.SortBy = models.SortProductName
	}

	rows, total, err := s.store.AssetSummary(ctx, query)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.AssetSummaryRow{}
	}

	return &models.AssetSummaryPage{
		Rows: rows,
		Pagination: models.NewPagination(total, query.Page, query.Limit),
	}, nil
}

func (s *ReportService) GetDashboardSummary(ctx context.Context) (models.DashboardSummary, error) {
	return s.store.Totals(ctx)
}

func clampLimit(limit, fallback int) int {
	switch {
	case limit <= 0:
		return fallback
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
