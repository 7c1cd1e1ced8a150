package stocks

import (
	"context"
	"database/sql"

	"github.com/SarprasYP/sispras/internal/repository"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var (
	stockItemColumns = []interface{}{"id", "product_id", "quantity", "unit", "reorder_point", "created_at", "updated_at"}
	logEntryColumns  = []interface{}{
		"id", "stock_item_id", "transaction_type", "quantity_changed",
		"person_name", "person_role", "notes", "user_id", "created_at",
	}
)

var _ repository.LedgerStore = (*StockRepository)(nil)

type StockRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *StockRepository {
	return &StockRepository{repository: r}
}

func (r *StockRepository) RunLedger(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	err := repository.WithTransaction(ctx, r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return fn(&ledgerTx{tx: tx})
	})
	return custom_error.WrapDBError("stock ledger transaction failed", err)
}

func (r *StockRepository) GetStockItem(ctx context.Context, id int) (*models.StockItem, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	var item models.StockItem
	found, err := r.repository.GoquDBWrapper.
		From("stock_items").
		Select(stockItemColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().
		ScanStructContext(ctx, &item)
	if err != nil {
		return nil, custom_error.WrapDBError("unable to select stock item", err)
	}
	if !found {
		return nil, custom_error.NotFound("stock item %d not found", id)
	}

	return &item, nil
}

func (r *StockRepository) ListStockItems(ctx context.Context) ([]models.StockItem, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	var items []models.StockItem
	err := r.repository.GoquDBWrapper.
		From("stock_items").
		Select(stockItemColumns...).
		Order(goqu.I("id").Asc()).
		Executor().
		ScanStructsContext(ctx, &items)
	if err != nil {
		return nil, custom_error.WrapDBError("unable to select stock items", err)
	}

	return items, nil
}

func (r *StockRepository) ListLogEntries(ctx context.Context, stockItemID int) ([]models.StockLogEntry, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	var entries []models.StockLogEntry
	err := r.repository.GoquDBWrapper.
		From("stock_log_entries").
		Select(logEntryColumns...).
		Where(goqu.Ex{"stock_item_id": stockItemID}).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		Executor().
		ScanStructsContext(ctx, &entries)
	if err != nil {
		return nil, custom_error.WrapDBError("unable to select stock log entries", err)
	}

	return entries, nil
}

// Snapshot reads the item and its log inside one read-only REPEATABLE READ
// transaction, so both reads see the same committed ledger state.
func (r *StockRepository) Snapshot(ctx context.Context, stockItemID int) (*models.StockItem, []models.StockLogEntry, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	var (
		item    models.StockItem
		entries []models.StockLogEntry
	)
	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := repository.WithTransactionOptions(ctx, r.repository.GoquDBWrapper, opts, func(tx *goqu.TxDatabase) error {
		found, err := tx.From("stock_items").
			Select(stockItemColumns...).
			Where(goqu.Ex{"id": stockItemID}).
			Executor().
			ScanStructContext(ctx, &item)
		if err != nil {
			return err
		}
		if !found {
			return custom_error.NotFound("stock item %d not found", stockItemID)
		}

		return tx.From("stock_log_entries").
			Select(logEntryColumns...).
			Where(goqu.Ex{"stock_item_id": stockItemID}).
			Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
			Executor().
			ScanStructsContext(ctx, &entries)
	})
	if err != nil {
		return nil, nil, custom_error.WrapDBError("unable to read stock item snapshot", err)
	}

	return &item, entries, nil
}

type ledgerTx struct {
	tx *goqu.TxDatabase
}

func (t *ledgerTx) GetConsumable(ctx context.Context, productID int) (*models.ConsumableProduct, error) {
	var product models.ConsumableProduct
	found, err := t.tx.
		From("consumable_products").
		Select("id", "name", "product_code", "category").
		Where(goqu.Ex{"id": productID}).
		Executor().
		ScanStructContext(ctx, &product)
	if err != nil {
		return nil, custom_error.WrapDBError("unable to select consumable product", err)
	}
	if !found {
		return nil, custom_error.NotFound("consumable product %d not found", productID)
	}

	return &product, nil
}

func (t *ledgerTx) EnsureStockItem(ctx context.Context, productID int, unit string) (*models.StockItem, error) {
	_, err := t.tx.Insert("stock_items").
		Rows(goqu.Record{
			"product_id": productID,
			"quantity":   0,
			"unit":       unit,
		}).
		OnConflict(goqu.DoNothing()).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return nil, custom_error.WrapDBError("failed to create stock item", err)
	}

	var item models.StockItem
	found, err := t.tx.
		From("stock_items").
		Select(stockItemColumns...).
		Where(goqu.Ex{"product_id": productID}).
		Executor().
		ScanStructContext(ctx, &item)
	if err != nil {
		return nil, custom_error.WrapDBError("unable to select stock item", err)
	}
	if !found {
		return nil, custom_error.NotFound("stock item for product %d not found", productID)
	}

	return &item, nil
}

func (t *ledgerTx) IncreaseQuantity(ctx context.Context, stockItemID, quantity int) (*models.StockItem, error) {
	var item models.StockItem
	found, err := t.tx.Update("stock_items").
		Set(goqu.Record{
			"quantity":   goqu.L("quantity + ?", quantity),
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": stockItemID}).
		Returning(stockItemColumns...).
		Executor().
		ScanStructContext(ctx, &item)
	if err != nil {
		return nil, custom_error.WrapDBError("failed to increase stock quantity", err)
	}
	if !found {
		return nil, custom_error.NotFound("stock item %d not found", stockItemID)
	}

	return &item, nil
}

func (t *ledgerTx) DecreaseQuantity(ctx context.Context, stockItemID, quantity int) (*models.StockItem, error) {
	var item models.StockItem
	found, err := t.tx.Update("stock_items").
		Set(goqu.Record{
			"quantity":   goqu.L("quantity - ?", quantity),
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": stockItemID}).
		Where(goqu.C("quantity").Gte(quantity)).
		Returning(stockItemColumns...).
		Executor().
		ScanStructContext(ctx, &item)
	if err != nil {
		return nil, custom_error.WrapDBError("failed to decrease stock quantity", err)
	}
	if found {
		return &item, nil
	}

	var current int
	exists, err := t.tx.
		From("stock_items").
		Select("quantity").
		Where(goqu.Ex{"id": stockItemID}).
		Executor().
		ScanValContext(ctx, &current)
	if err != nil {
		return nil, custom_error.WrapDBError("unable to select stock quantity", err)
	}
	if !exists {
		return nil, custom_error.NotFound("stock item %d not found", stockItemID)
	}

	return nil, custom_error.InsufficientStock(current)
}

func (t *ledgerTx) AppendLogEntry(ctx context.Context, entry models.StockLogEntry) (*models.StockLogEntry, error) {
	var created models.StockLogEntry
	_, err := t.tx.Insert("stock_log_entries").
		Rows(goqu.Record{
			"stock_item_id":    entry.StockItemID,
			"transaction_type": string(entry.TransactionType),
			"quantity_changed": entry.QuantityChanged,
			"person_name":      entry.PersonName,
			"person_role":      entry.PersonRole,
			"notes":            entry.Notes,
			"user_id":          entry.UserID,
		}).
		Returning(logEntryColumns...).
		Executor().
		ScanStructContext(ctx, &created)
	if err != nil {
		return nil, custom_error.WrapDBError("failed to insert stock log entry", err)
	}

	return &created, nil
}
