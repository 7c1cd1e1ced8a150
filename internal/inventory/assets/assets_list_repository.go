package assets

import (
	"context"

	"github.com/SarprasYP/sispras/internal/repository"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var assetSortColumns = map[string]string{
	models.AssetSortCreatedAt:      "a.created_at",
	models.AssetSortSerialNumber:   "a.serial_number",
	models.AssetSortProductName:    "p.name",
	models.AssetSortLocationName:   "l.name",
	models.AssetSortBrandName:      "b.name",
	models.AssetSortCondition:      "a.condition",
	models.AssetSortPurchasedYear:  "a.purchased_year",
	models.AssetSortEstimatedPrice: "a.estimated_price",
}

var assetFilterAliases = map[string]string{
	"serialNumber": "a.serial_number",
	"productId":    "p.id",
	"productName":  "p.name",
	"locationId":   "l.id",
	"locationName": "l.name",
	"brandName":    "b.name",
	"condition":    "a.condition",
}

// ListAssets pages over individual assets, newest first unless another
// sort key is given.
func (r *AssetsRepository) ListAssets(ctx context.Context, query models.AssetListQuery) ([]models.Asset, int, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	where := assetListConditions(query.Filters)

	var total int
	_, err := r.assetsFrom().
		Select(goqu.COUNT("a.id")).
		Where(where...).
		Executor().
		ScanValContext(ctx, &total)
	if err != nil {
		return nil, 0, custom_error.WrapDBError("unable to count assets", err)
	}

	column, ok := assetSortColumns[query.SortBy]
	if !ok {
		column = assetSortColumns[models.AssetSortCreatedAt]
	}
	order, tieBreak := goqu.I(column).Asc().NullsLast(), goqu.I("a.id").Asc()
	if query.Desc {
		order, tieBreak = goqu.I(column).Desc().NullsFirst(), goqu.I("a.id").Desc()
	}

	var flatAssets []models.FlatAssetRecord
	err = r.getAssetQuery().
		Where(where...).
		Order(order, tieBreak).
		Limit(uint(query.Limit)).
		Offset(uint(models.Offset(query.Page, query.Limit))).
		Executor().
		ScanStructsContext(ctx, &flatAssets)
	if err != nil {
		return nil, 0, custom_error.WrapDBError("unable to select assets", err)
	}

	assets := make([]models.Asset, 0, len(flatAssets))
	for _, flatAsset := range flatAssets {
		asset, err := flatAsset.TransformToAsset()
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, asset)
	}

	return assets, total, nil
}

func assetListConditions(filters models.AssetListFilters) []exp.Expression {
	conditions := repository.NewQueryBuilder()
	if filters.SerialNumber != "" {
		conditions.AddContains("serialNumber", filters.SerialNumber)
	}
	if filters.ProductID != 0 {
		conditions.AddCondition("productId", filters.ProductID)
	}
	if filters.ProductName != "" {
		conditions.AddContains("productName", filters.ProductName)
	}
	if filters.LocationID != 0 {
		conditions.AddCondition("locationId", filters.LocationID)
	}
	if filters.LocationName != "" {
		conditions.AddContains("locationName", filters.LocationName)
	}
	if filters.BrandName != "" {
		conditions.AddContains("brandName", filters.BrandName)
	}
	if filters.Condition != "" {
		conditions.AddCondition("condition", filters.Condition)
	}

	var where []exp.Expression
	if !conditions.IsEmpty() {
		where = append(where, conditions.BuildConditions(assetFilterAliases))
	}
	if filters.Q != "" {
		pattern := "%" + repository.EscapeLike(filters.Q) + "%"
		where = append(where, goqu.Or(
			goqu.I("a.serial_number").ILike(pattern),
			goqu.I("p.name").ILike(pattern),
			goqu.I("l.name").ILike(pattern),
			goqu.I("b.name").ILike(pattern),
			goqu.I("a.condition").ILike(pattern),
		))
	}
	return where
}
