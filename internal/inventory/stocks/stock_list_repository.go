package stocks

import (
	"context"

	"github.com/SarprasYP/sispras/internal/repository"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var stockSortColumns = map[string]string{
	models.StockSortProductName: "cp.name",
	models.StockSortProductCode: "cp.product_code",
	models.StockSortQuantity:    "si.quantity",
	models.StockSortUpdatedAt:   "si.updated_at",
}

var logFilterAliases = map[string]string{
	"stockItemId":     "le.stock_item_id",
	"transactionType": "le.transaction_type",
}

func direction(column string, desc bool) exp.OrderedExpression {
	if desc {
		return goqu.I(column).Desc()
	}
	return goqu.I(column).Asc()
}

func (r *StockRepository) ListStock(ctx context.Context, query models.StockListQuery) ([]models.StockView, int, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	base := r.repository.GoquDBWrapper.From(goqu.T("stock_items").As("si")).
		Join(goqu.T("consumable_products").As("cp"), goqu.On(goqu.Ex{"si.product_id": goqu.I("cp.id")}))
	if query.Q != "" {
		pattern := "%" + repository.EscapeLike(query.Q) + "%"
		base = base.Where(goqu.Or(
			goqu.I("cp.name").ILike(pattern),
			goqu.I("cp.product_code").ILike(pattern),
		))
	}

	var total int
	_, err := base.Select(goqu.COUNT("si.id")).Executor().ScanValContext(ctx, &total)
	if err != nil {
		return nil, 0, custom_error.WrapDBError("unable to count stock items", err)
	}

	column, ok := stockSortColumns[query.SortBy]
	if !ok {
		column = stockSortColumns[models.StockSortProductName]
	}

	views := []models.StockView{}
	err = base.
		Select(
			goqu.I("si.id").As("id"),
			goqu.I("si.product_id").As("product_id"),
			goqu.I("si.quantity").As("quantity"),
			goqu.I("si.unit").As("unit"),
			goqu.I("si.reorder_point").As("reorder_point"),
			goqu.I("si.created_at").As("created_at"),
			goqu.I("si.updated_at").As("updated_at"),
			goqu.I("cp.name").As("product_name"),
			goqu.I("cp.product_code").As("product_code"),
			goqu.I("cp.category").As("category"),
		).
		Order(direction(column, query.Desc), direction("si.id", query.Desc)).
		Limit(uint(query.Limit)).
		Offset(uint(models.Offset(query.Page, query.Limit))).
		Executor().
		ScanStructsContext(ctx, &views)
	if err != nil {
		return nil, 0, custom_error.WrapDBError("unable to select stock items", err)
	}

	return views, total, nil
}

// ListLog pages over the whole ledger, joined with product and user.
func (r *StockRepository) ListLog(ctx context.Context, query models.LogListQuery) ([]models.ActivityEntry, int, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	conditions := repository.NewQueryBuilder()
	if query.StockItemID != 0 {
		conditions.AddCondition("stockItemId", query.StockItemID)
	}
	if query.TransactionType != "" {
		conditions.AddCondition("transactionType", query.TransactionType)
	}

	var where []exp.Expression
	if !conditions.IsEmpty() {
		where = append(where, conditions.BuildConditions(logFilterAliases))
	}
	if query.Q != "" {
		pattern := "%" + repository.EscapeLike(query.Q) + "%"
		where = append(where, goqu.Or(
			goqu.I("cp.name").ILike(pattern),
			goqu.I("le.person_name").ILike(pattern),
		))
	}

	base := r.repository.GoquDBWrapper.From(goqu.T("stock_log_entries").As("le")).
		LeftJoin(goqu.T("stock_items").As("si"), goqu.On(goqu.Ex{"le.stock_item_id": goqu.I("si.id")})).
		LeftJoin(goqu.T("consumable_products").As("cp"), goqu.On(goqu.Ex{"si.product_id": goqu.I("cp.id")})).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.Ex{"le.user_id": goqu.I("u.id")})).
		Where(where...)

	var total int
	_, err := base.Select(goqu.COUNT("le.id")).Executor().ScanValContext(ctx, &total)
	if err != nil {
		return nil, 0, custom_error.WrapDBError("unable to count stock log entries", err)
	}

	entries := []models.ActivityEntry{}
	err = base.
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
		Order(direction("le.created_at", query.Desc), direction("le.id", query.Desc)).
		Limit(uint(query.Limit)).
		Offset(uint(models.Offset(query.Page, query.Limit))).
		Executor().
		ScanStructsContext(ctx, &entries)
	if err != nil {
		return nil, 0, custom_error.WrapDBError("unable to select stock log entries", err)
	}

	return entries, total, nil
}
