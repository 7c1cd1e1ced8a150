package reports

import (
	"context"
	"fmt"
	"testing"

	"github.com/SarprasYP/sispras/internal/repository"
	"github.com/SarprasYP/sispras/internal/repository/memory"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/metadata"
	"github.com/SarprasYP/sispras/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedStock creates a stock item holding quantity for a new consumable and
// returns its id.
func seedStock(t *testing.T, store *memory.Store, name string, quantity, reorderPoint int, userID *int) int {
	t.Helper()
	ctx := context.Background()
	product := store.AddConsumable(models.ConsumableProduct{Name: name, ProductCode: name})

	var id int
	require.NoError(t, store.RunLedger(ctx, func(tx repository.LedgerTx) error {
		item, err := tx.EnsureStockItem(ctx, product.ID, "pcs")
		if err != nil {
			return err
		}
		id = item.ID
		if quantity == 0 {
			return nil
		}
		if _, err := tx.IncreaseQuantity(ctx, item.ID, quantity); err != nil {
			return err
		}
		_, err = tx.AppendLogEntry(ctx, models.StockLogEntry{
			StockItemID:     item.ID,
			TransactionType: metadata.TransactionRestock,
			QuantityChanged: quantity,
			PersonName:      "Budi",
			UserID:          userID,
		})
		return err
	}))
	require.NoError(t, store.SetReorderPoint(id, reorderPoint))
	return id
}

func TestReportService_GetLowStockOrdersByQuantity(t *testing.T) {
	store := memory.New()
	service := NewReportService(store)
	five := seedStock(t, store, "Spidol", 5, 10, nil)
	two := seedStock(t, store, "Tinta", 2, 10, nil)
	seedStock(t, store, "Kertas", 8, 10, nil)
	seedStock(t, store, "Map", 50, 10, nil)

	items, err := service.GetLowStock(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, two, items[0].StockItemID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Tinta", items[0].ProductName)
	assert.Equal(t, "pcs", items[0].Unit)
	assert.Equal(t, five, items[1].StockItemID)
	assert.Equal(t, 5, items[1].Quantity)
}

func TestReportService_LimitDefaults(t *testing.T) {
	store := memory.New()
	service := NewReportService(store)
	for i := 0; i < 9; i++ {
		seedStock(t, store, fmt.Sprintf("Barang %d", i), i+1, 100, nil)
	}

	tests := []struct {
		name      string
		limit     int
		lowStock  int
		recentLog int
	}{
		{"absent limit", 0, DefaultLowStockLimit, DefaultRecentLimit},
		{"negative limit", -3, DefaultLowStockLimit, DefaultRecentLimit},
		{"explicit limit", 3, 3, 3},
		{"limit above data", 50, 9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := service.GetLowStock(context.Background(), tt.limit)
			require.NoError(t, err)
			assert.Len(t, items, tt.lowStock)

			entries, err := service.GetRecentActivity(context.Background(), tt.limit)
			require.NoError(t, err)
			assert.Len(t, entries, tt.recentLog)
		})
	}
}

func TestReportService_GetRecentActivity(t *testing.T) {
	store := memory.New()
	service := NewReportService(store)
	user := store.AddUser(models.User{Username: "siti", Fullname: "Siti Aminah", Role: "manager"})

	seedStock(t, store, "Spidol", 5, 0, nil)
	seedStock(t, store, "Tinta", 3, 0, &user.ID)

	entries, err := service.GetRecentActivity(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Tinta", entries[0].ProductName)
	assert.Equal(t, "Siti Aminah", entries[0].RecordedBy)
	assert.Equal(t, "Spidol", entries[1].ProductName)
	assert.Equal(t, models.SystemActor, entries[1].RecordedBy)
}

func TestReportService_EmptyResultsAreNotNil(t *testing.T) {
	service := NewReportService(memory.New())

	items, err := service.GetLowStock(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, items)

	entries, err := service.GetRecentActivity(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, entries)

	page, err := service.GetAssetSummary(context.Background(), SummaryRequest{})
	require.NoError(t, err)
	assert.NotNil(t, page.Rows)
	assert.Equal(t, models.Pagination{TotalItems: 0, CurrentPage: 1, TotalPages: 0, Limit: DefaultSummaryLimit}, page.Pagination)
}

func seedAssets(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	brand := store.AddBrand("Informa")
	lab := store.AddLocation(models.Location{Name: "12 (Lab)", Building: "A", Floor: "3"})
	office := store.AddLocation(models.Location{Name: "Kantor", Building: "B", Floor: "1"})
	chair := store.AddProduct(models.Product{Name: "Kursi", ProductCode: "KUR", BrandID: &brand.ID})
	table := store.AddProduct(models.Product{Name: "Meja", ProductCode: "MEJ"})
	lamp := store.AddProduct(models.Product{Name: "Lampu", ProductCode: "LMP"})

	asset := func(product models.Product, location models.Location, serial string) models.Asset {
		return models.Asset{
			Product:      models.Product{ID: product.ID},
			Location:     models.Location{ID: location.ID},
			SerialNumber: serial,
			Condition:    metadata.ConditionGood,
		}
	}
	require.NoError(t, store.RunProvisioning(ctx, func(tx repository.ProvisioningTx) error {
		_, err := tx.InsertAssets(ctx, []models.Asset{
			asset(chair, lab, "c1"), asset(chair, lab, "c2"), asset(chair, lab, "c3"),
			asset(table, lab, "t1"), asset(table, office, "t2"),
			asset(lamp, office, "l1"), asset(lamp, office, "l2"),
		})
		return err
	}))
}

func TestReportService_GetAssetSummary(t *testing.T) {
	store := memory.New()
	seedAssets(t, store)
	service := NewReportService(store)

	tests := []struct {
		name          string
		req           SummaryRequest
		expectedNames []string
		expectedPage  models.Pagination
	}{
		{
			name:          "defaults sort by product name",
			req:           SummaryRequest{},
			expectedNames: []string{"Kursi", "Lampu", "Meja", "Meja"},
			expectedPage:  models.Pagination{TotalItems: 4, CurrentPage: 1, TotalPages: 1, Limit: 10},
		},
		{
			name:          "count alias descending",
			req:           SummaryRequest{SortBy: "jumlah", Order: "DESC", Limit: 2},
			expectedNames: []string{"Kursi", "Lampu"},
			expectedPage:  models.Pagination{TotalItems: 4, CurrentPage: 1, TotalPages: 2, Limit: 2},
		},
		{
			name:          "second page",
			req:           SummaryRequest{Page: 2, Limit: 3},
			expectedNames: []string{"Meja"},
			expectedPage:  models.Pagination{TotalItems: 4, CurrentPage: 2, TotalPages: 2, Limit: 3},
		},
		{
			name:          "free text matches brand",
			req:           SummaryRequest{Q: "informa"},
			expectedNames: []string{"Kursi"},
			expectedPage:  models.Pagination{TotalItems: 1, CurrentPage: 1, TotalPages: 1, Limit: 10},
		},
		{
			name:          "location filter",
			req:           SummaryRequest{LocationName: "kantor"},
			expectedNames: []string{"Lampu", "Meja"},
			expectedPage:  models.Pagination{TotalItems: 2, CurrentPage: 1, TotalPages: 1, Limit: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := service.GetAssetSummary(context.Background(), tt.req)
			require.NoError(t, err)

			names := make([]string, 0, len(page.Rows))
			for _, row := range page.Rows {
				names = append(names, row.ProductName)
			}
			assert.Equal(t, tt.expectedNames, names)
			assert.Equal(t, tt.expectedPage, page.Pagination)
		})
	}
}

func TestReportService_GetAssetSummaryValidation(t *testing.T) {
	service := NewReportService(memory.New())

	tests := []struct {
		name  string
		req   SummaryRequest
		field string
	}{
		{"unknown sort key", SummaryRequest{SortBy: "serial"}, "sortBy"},
		{"unknown order", SummaryRequest{Order: "sideways"}, "order"},
		{"limit too large", SummaryRequest{Limit: 1000}, "limit"},
		{"negative page", SummaryRequest{Page: -1}, "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.GetAssetSummary(context.Background(), tt.req)
			tagged, ok := custom_error.As(err)
			require.True(t, ok)
			assert.Equal(t, custom_error.KindValidation, tagged.Kind)
			assert.Contains(t, tagged.Fields, tt.field)
		})
	}
}

func TestReportService_GetDashboardSummary(t *testing.T) {
	store := memory.New()
	seedAssets(t, store)
	seedStock(t, store, "Spidol", 5, 0, nil)
	seedStock(t, store, "Tinta", 12, 0, nil)

	summary, err := NewReportService(store).GetDashboardSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DashboardSummary{TotalAssets: 7, TotalStock: 17}, summary)
}
