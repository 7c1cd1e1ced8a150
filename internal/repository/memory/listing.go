package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/SarprasYP/sispras/pkg/models"
)

func (s *Store) ListAssets(_ context.Context, query models.AssetListQuery) ([]models.Asset, int, error) {
	s.mu.Lock()
	var matched []models.Asset
	for _, asset := range s.state.assets {
		resolved := s.state.resolveAsset(asset)
		if matchesAssetFilters(resolved, query.Filters) {
			matched = append(matched, resolved)
		}
	}
	s.mu.Unlock()

	sortAssets(matched, query.SortBy, query.Desc)
	return paginate(matched, query.Page, query.Limit), len(matched), nil
}

func brandOf(asset models.Asset) string {
	if asset.Product.Brand == nil {
		return ""
	}
	return asset.Product.Brand.Name
}

func matchesAssetFilters(asset models.Asset, filters models.AssetListFilters) bool {
	brandName := brandOf(asset)
	if filters.Q != "" &&
		!containsFold(asset.SerialNumber, filters.Q) &&
		!containsFold(asset.Product.Name, filters.Q) &&
		!containsFold(asset.Location.Name, filters.Q) &&
		!containsFold(brandName, filters.Q) &&
		!containsFold(string(asset.Condition), filters.Q) {
		return false
	}
	switch {
	case filters.SerialNumber != "" && !containsFold(asset.SerialNumber, filters.SerialNumber),
		filters.ProductName != "" && !containsFold(asset.Product.Name, filters.ProductName),
		filters.LocationName != "" && !containsFold(asset.Location.Name, filters.LocationName),
		filters.BrandName != "" && !containsFold(brandName, filters.BrandName),
		filters.ProductID != 0 && asset.Product.ID != filters.ProductID,
		filters.LocationID != 0 && asset.Location.ID != filters.LocationID,
		filters.Condition != "" && string(asset.Condition) != filters.Condition:
		return false
	}
	return true
}

// sortAssets orders by the requested key with the asset id as tie-break,
// both in the requested direction.
func sortAssets(assets []models.Asset, sortBy string, desc bool) {
	compare := func(a, b models.Asset) int {
		switch sortBy {
		case models.AssetSortSerialNumber:
			return strings.Compare(a.SerialNumber, b.SerialNumber)
		case models.AssetSortProductName:
			return strings.Compare(a.Product.Name, b.Product.Name)
		case models.AssetSortLocationName:
			return strings.Compare(a.Location.Name, b.Location.Name)
		case models.AssetSortBrandName:
			return strings.Compare(brandOf(a), brandOf(b))
		case models.AssetSortCondition:
			return strings.Compare(string(a.Condition), string(b.Condition))
		case models.AssetSortPurchasedYear:
			return compareNullable(a.PurchasedYear, b.PurchasedYear)
		case models.AssetSortEstimatedPrice:
			return compareNullable(a.EstimatedPrice, b.EstimatedPrice)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	sort.Slice(assets, func(i, j int) bool {
		c := compare(assets[i], assets[j])
		if c == 0 {
			c = assets[i].ID - assets[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func (s *Store) ListStock(_ context.Context, query models.StockListQuery) ([]models.StockView, int, error) {
	s.mu.Lock()
	var views []models.StockView
	for _, item := range s.state.stockItems {
		product := s.state.consumables[item.ProductID]
		if query.Q != "" && !containsFold(product.Name, query.Q) && !containsFold(product.ProductCode, query.Q) {
			continue
		}
		views = append(views, models.StockView{
			StockItem:   item,
			ProductName: product.Name,
			ProductCode: product.ProductCode,
			Category:    product.Category,
		})
	}
	s.mu.Unlock()

	compare := func(a, b models.StockView) int {
		switch query.SortBy {
		case models.StockSortProductCode:
			return strings.Compare(a.ProductCode, b.ProductCode)
		case models.StockSortQuantity:
			return a.Quantity - b.Quantity
		case models.StockSortUpdatedAt:
			return a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			return strings.Compare(a.ProductName, b.ProductName)
		}
	}
	sort.Slice(views, func(i, j int) bool {
		c := compare(views[i], views[j])
		if c == 0 {
			c = views[i].ID - views[j].ID
		}
		if query.Desc {
			return c > 0
		}
		return c < 0
	})
	return paginate(views, query.Page, query.Limit), len(views), nil
}

func (s *Store) ListLog(_ context.Context, query models.LogListQuery) ([]models.ActivityEntry, int, error) {
	s.mu.Lock()
	var entries []models.ActivityEntry
	for _, entry := range s.state.logEntries {
		if query.StockItemID != 0 && entry.StockItemID != query.StockItemID {
			continue
		}
		if query.TransactionType != "" && string(entry.TransactionType) != query.TransactionType {
			continue
		}
		activity := s.state.activityEntry(entry)
		if query.Q != "" && !containsFold(activity.ProductName, query.Q) && !containsFold(activity.PersonName, query.Q) {
			continue
		}
		entries = append(entries, activity)
	}
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		c := entries[i].CreatedAt.Compare(entries[j].CreatedAt)
		if c == 0 {
			c = entries[i].ID - entries[j].ID
		}
		if query.Desc {
			return c > 0
		}
		return c < 0
	})
	return paginate(entries, query.Page, query.Limit), len(entries), nil
}
