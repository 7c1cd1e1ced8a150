package reports

import (
	"context"

	"github.com/SarprasYP/sispras/internal/repository"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var _ repository.ReportStore = (*ReportRepository)(nil)

var summarySortColumns = map[string]string{
	models.SortProductName:    "product_name",
	models.SortBrandName:      "brand_name",
	models.SortRoom:           "location_name",
	models.SortBuilding:       "building",
	models.SortFloor:          "floor",
	models.SortCount:          "count",
	models.SortPurchasedYear:  "purchased_year",
	models.SortEstimatedPrice: "estimated_price",
}

type ReportRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ReportRepository {
	return &ReportRepository{repository: r}
}

func (r *ReportRepository) LowStock(ctx context.Context, limit int) ([]models.LowStockItem, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	items := []models.LowStockItem{}
	err := r.repository.GoquDBWrapper.From(goqu.T("stock_items").As("si")).
		Select(
			goqu.I("si.id").As("stock_item_id"),
			goqu.I("si.product_id").As("product_id"),
			goqu.I("cp.name").As("product_name"),
			goqu.I("si.quantity").As("quantity"),
			goqu.I("si.unit").As("unit"),
			goqu.I("si.reorder_point").As("reorder_point"),
		).
		Join(goqu.T("consumable_products").As("cp"), goqu.On(goqu.Ex{"si.product_id": goqu.I("cp.id")})).
		Where(goqu.I("si.quantity").Lte(goqu.I("si.reorder_point"))).
		Order(goqu.I("si.quantity").Asc(), goqu.I("si.id").Asc()).
		Limit(uint(limit)).
		Executor().
		ScanStructsContext(ctx, &items)
	if err != nil {
		return nil, custom_error.WrapDBError("unable to select low stock items", err)
	}

	return items, nil
}

func (r *ReportRepository) RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	entries := []models.ActivityEntry{}
	err := r.repository.GoquDBWrapper.From(goqu.T("stock_log_entries").As("le")).
		Select(
			goqu.I("le.id").As("id"),
			goqu.I("le.stock_item_id").As("stock_item_id"),
			goqu.L("COALESCE(cp.name, '')").As("product_name"),
			goqu.I("le.transaction_type").As("transaction_type"),
			goqu.I("le.quantity_changed").As("quantity_changed"),
			goqu.I("le.person_name").As("person_name"),
			goqu.I("le.person_role").As("person_role"),
			goqu.I("le.notes").As("notes"),
			goqu.L("COALESCE(u.fullname, ?)", models.SystemActor).As("recorded_by"),
			goqu.I("le.created_at").As("created_at"),
		).
		LeftJoin(goqu.T("stock_items").As("si"), goqu.On(goqu.Ex{"le.stock_item_id": goqu.I("si.id")})).
		LeftJoin(goqu.T("consumable_products").As("cp"), goqu.On(goqu.Ex{"si.product_id": goqu.I("cp.id")})).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.Ex{"le.user_id": goqu.I("u.id")})).
		Order(goqu.I("le.created_at").Desc(), goqu.I("le.id").Desc()).
		Limit(uint(limit)).
		Executor().
		ScanStructsContext(ctx, &entries)
	if err != nil {
		return nil, custom_error.WrapDBError("unable to select recent activity", err)
	}

	return entries, nil
}

func (r *ReportRepository) Totals(ctx context.Context) (models.DashboardSummary, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	var summary models.DashboardSummary
	_, err := r.repository.GoquDBWrapper.
		Select(
			goqu.L("(SELECT COUNT(*) FROM assets)").As("total_assets"),
			goqu.L("(SELECT COALESCE(SUM(quantity), 0) FROM stock_items)").As("total_stock"),
		).
		Executor().
		ScanStructContext(ctx, &summary)
	if err != nil {
		return models.DashboardSummary{}, custom_error.WrapDBError("unable to compute dashboard totals", err)
	}

	return summary, nil
}

// AssetSummary groups assets by (product, brand, room, building, floor).
// Filters apply to individual assets before grouping; sorting and paging
// apply to the groups.
func (r *ReportRepository) AssetSummary(ctx context.Context, query models.AssetSummaryQuery) ([]models.AssetSummaryRow, int, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	grouped := r.groupedAssets(query.Filters)

	var total int
	_, err := r.repository.GoquDBWrapper.
		From(grouped.As("summary")).
		Select(goqu.COUNT(goqu.Star())).
		Executor().
		ScanValContext(ctx, &total)
	if err != nil {
		return nil, 0, custom_error.WrapDBError("unable to count asset summary", err)
	}

	column, ok := summarySortColumns[query.SortBy]
	if !ok {
		column = summarySortColumns[models.SortProductName]
	}
	order := goqu.I(column).Asc().NullsLast()
	if query.Desc {
		order = goqu.I(column).Desc().NullsFirst()
	}

	rows := []models.AssetSummaryRow{}
	err = grouped.
		Order(order, goqu.I("product_name").Asc(), goqu.I("location_name").Asc()).
		Limit(uint(query.Limit)).
		Offset(uint(models.Offset(query.Page, query.Limit))).
		Executor().
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, 0, custom_error.WrapDBError("unable to select asset summary", err)
	}

	return rows, total, nil
}

func (r *ReportRepository) groupedAssets(filters models.AssetSummaryFilters) *goqu.SelectDataset {
	aliases := map[string]string{
		"productName":    "p.name",
		"locationName":   "l.name",
		"brandName":      "b.name",
		"estimatedPrice": "a.estimated_price",
	}

	conditions := repository.NewQueryBuilder()
	if filters.ProductName != "" {
		conditions.AddContains("productName", filters.ProductName)
	}
	if filters.LocationName != "" {
		conditions.AddContains("locationName", filters.LocationName)
	}
	if filters.BrandName != "" {
		conditions.AddContains("brandName", filters.BrandName)
	}
	if filters.EstimatedPrice != nil {
		conditions.AddCondition("estimatedPrice", *filters.EstimatedPrice)
	}

	var where []exp.Expression
	if !conditions.IsEmpty() {
		where = append(where, conditions.BuildConditions(aliases))
	}
	if filters.Q != "" {
		pattern := "%" + repository.EscapeLike(filters.Q) + "%"
		where = append(where, goqu.Or(
			goqu.I("p.name").ILike(pattern),
			goqu.I("l.name").ILike(pattern),
			goqu.I("b.name").ILike(pattern),
		))
	}

	return r.repository.GoquDBWrapper.From(goqu.T("assets").As("a")).
		Select(
			goqu.L("COALESCE(MIN(p.id), 0)").As("product_id"),
			goqu.L("COALESCE(MIN(l.id), 0)").As("location_id"),
			goqu.L("COALESCE(p.name, '')").As("product_name"),
			goqu.L("COALESCE(b.name, '')").As("brand_name"),
			goqu.L("COALESCE(l.name, '')").As("location_name"),
			goqu.L("COALESCE(l.building, '')").As("building"),
			goqu.L("COALESCE(l.floor, '')").As("floor"),
			goqu.L("(ARRAY_AGG(a.purchased_year ORDER BY a.id))[1]").As("purchased_year"),
			goqu.L("(ARRAY_AGG(a.estimated_price ORDER BY a.id))[1]").As("estimated_price"),
			goqu.COUNT("a.id").As("count"),
		).
		LeftJoin(goqu.T("products").As("p"), goqu.On(goqu.Ex{"a.product_id": goqu.I("p.id")})).
		LeftJoin(goqu.T("brands").As("b"), goqu.On(goqu.Ex{"p.brand_id": goqu.I("b.id")})).
		LeftJoin(goqu.T("locations").As("l"), goqu.On(goqu.Ex{"a.location_id": goqu.I("l.id")})).
		Where(where...).
		GroupBy(goqu.I("p.name"), goqu.I("b.name"), goqu.I("l.name"), goqu.I("l.building"), goqu.I("l.floor"))
}
