package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/SarprasYP/sispras/pkg/models"
)

func (s *Store) LowStock(_ context.Context, limit int) ([]models.LowStockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.LowStockItem
	for _, item := range s.state.stockItems {
		if item.Quantity > item.ReorderPoint {
			continue
		}
		items = append(items, models.LowStockItem{
			StockItemID:  item.ID,
			ProductID:    item.ProductID,
			ProductName:  s.state.consumables[item.ProductID].Name,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			ReorderPoint: item.ReorderPoint,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Quantity != items[j].Quantity {
			return items[i].Quantity < items[j].Quantity
		}
		return items[i].StockItemID < items[j].StockItemID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) RecentActivity(_ context.Context, limit int) ([]models.ActivityEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append([]models.StockLogEntry(nil), s.state.logEntries...)
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	activity := make([]models.ActivityEntry, 0, len(entries))
	for _, entry := range entries {
		activity = append(activity, s.state.activityEntry(entry))
	}
	return activity, nil
}

// activityEntry joins a log entry with its product and recording user.
func (st *state) activityEntry(entry models.StockLogEntry) models.ActivityEntry {
	recordedBy := models.SystemActor
	if entry.UserID != nil {
		if user, ok := st.users[*entry.UserID]; ok {
			recordedBy = user.Fullname
		}
	}
	var productName string
	if item, ok := st.stockItems[entry.StockItemID]; ok {
		productName = st.consumables[item.ProductID].Name
	}
	return models.ActivityEntry{
		ID:              entry.ID,
		StockItemID:     entry.StockItemID,
		ProductName:     productName,
		TransactionType: entry.TransactionType,
		QuantityChanged: entry.QuantityChanged,
		PersonName:      entry.PersonName,
		PersonRole:      entry.PersonRole,
		Notes:           entry.Notes,
		RecordedBy:      recordedBy,
		CreatedAt:       entry.CreatedAt,
	}
}

func (s *Store) Totals(_ context.Context) (models.DashboardSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := models.DashboardSummary{TotalAssets: len(s.state.assets)}
	for _, item := range s.state.stockItems {
		summary.TotalStock += item.Quantity
	}
	return summary, nil
}

type summaryKey struct {
	productName  string
	brandName    string
	locationName string
	building     string
	floor        string
}

func (s *Store) AssetSummary(_ context.Context, query models.AssetSummaryQuery) ([]models.AssetSummaryRow, int, error) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.state.assets))
	for id := range s.state.assets {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	groups := map[summaryKey]int{}
	var rows []models.AssetSummaryRow
	for _, id := range ids {
		asset := s.state.resolveAsset(s.state.assets[id])
		brandName := ""
		if asset.Product.Brand != nil {
			brandName = asset.Product.Brand.Name
		}
		if !matchesSummaryFilters(asset, brandName, query.Filters) {
			continue
		}

		key := summaryKey{
			productName:  asset.Product.Name,
			brandName:    brandName,
			locationName: asset.Location.Name,
			building:     asset.Location.Building,
			floor:        asset.Location.Floor,
		}
		if idx, ok := groups[key]; ok {
			rows[idx].Count++
			continue
		}
		groups[key] = len(rows)
		rows = append(rows, models.AssetSummaryRow{
			ProductID:      asset.Product.ID,
			LocationID:     asset.Location.ID,
			ProductName:    key.productName,
			BrandName:      key.brandName,
			Room:           key.locationName,
			Building:       key.building,
			Floor:          key.floor,
			PurchasedYear:  asset.PurchasedYear,
			EstimatedPrice: asset.EstimatedPrice,
			Count:          1,
		})
	}
	s.mu.Unlock()

	sortSummaryRows(rows, query.SortBy, query.Desc)

	return paginate(rows, query.Page, query.Limit), len(rows), nil
}

func matchesSummaryFilters(asset models.Asset, brandName string, filters models.AssetSummaryFilters) bool {
	if filters.Q != "" &&
		!containsFold(asset.Product.Name, filters.Q) &&
		!containsFold(asset.Location.Name, filters.Q) &&
		!containsFold(brandName, filters.Q) {
		return false
	}
	if filters.ProductName != "" && !containsFold(asset.Product.Name, filters.ProductName) {
		return false
	}
	if filters.LocationName != "" && !containsFold(asset.Location.Name, filters.LocationName) {
		return false
	}
	if filters.BrandName != "" && !containsFold(brandName, filters.BrandName) {
		return false
	}
	if filters.EstimatedPrice != nil {
		if asset.EstimatedPrice == nil || *asset.EstimatedPrice != *filters.EstimatedPrice {
			return false
		}
	}
	return true
}

func containsFold(value, needle string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

// sortSummaryRows orders rows by the requested key, then by product name and
// room ascending. Missing purchase data sorts last ascending and first
// descending, like postgres.
func sortSummaryRows(rows []models.AssetSummaryRow, sortBy string, desc bool) {
	compare := func(a, b models.AssetSummaryRow) int {
		switch sortBy {
		case models.SortBrandName:
			return strings.Compare(a.BrandName, b.BrandName)
		case models.SortRoom:
			return strings.Compare(a.Room, b.Room)
		case models.SortBuilding:
			return strings.Compare(a.Building, b.Building)
		case models.SortFloor:
			return strings.Compare(a.Floor, b.Floor)
		case models.SortCount:
			return a.Count - b.Count
		case models.SortPurchasedYear:
			return compareNullable(a.PurchasedYear, b.PurchasedYear)
		case models.SortEstimatedPrice:
			return compareNullable(a.EstimatedPrice, b.EstimatedPrice)
		default:
			return strings.Compare(a.ProductName, b.ProductName)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i], rows[j])
		if desc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(rows[i].ProductName, rows[j].ProductName)
		}
		if c == 0 {
			c = strings.Compare(rows[i].Room, rows[j].Room)
		}
		return c < 0
	})
}

// paginate returns the rows of one page, never nil.
func paginate[T any](rows []T, page, limit int) []T {
	start := models.Offset(page, limit)
	if start >= len(rows) {
		return []T{}
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func compareNullable[T int | float64](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}
