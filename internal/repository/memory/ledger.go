package memory

import (
	"context"
	"sort"

	"github.com/SarprasYP/sispras/internal/repository"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/models"
)

type ledgerTx struct {
	store *Store
	st    *state
}

func (s *Store) RunLedger(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, func(st *state) error {
		return fn(&ledgerTx{store: s, st: st})
	})
}

func (t *ledgerTx) GetConsumable(_ context.Context, productID int) (*models.ConsumableProduct, error) {
	product, ok := t.st.consumables[productID]
	if !ok {
		return nil, custom_error.NotFound("consumable product %d not found", productID)
	}
	return &product, nil
}

func (t *ledgerTx) EnsureStockItem(_ context.Context, productID int, unit string) (*models.StockItem, error) {
	if err := t.store.fault(OpEnsureStockItem); err != nil {
		return nil, err
	}
	for _, item := range t.st.stockItems {
		if item.ProductID == productID {
			found := item
			return &found, nil
		}
	}
	now := t.store.now()
	item := models.StockItem{
		ID:        t.st.nextID("stock_items"),
		ProductID: productID,
		Unit:      unit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.st.stockItems[item.ID] = item
	return &item, nil
}

func (t *ledgerTx) IncreaseQuantity(_ context.Context, stockItemID, quantity int) (*models.StockItem, error) {
	if err := t.store.fault(OpIncreaseQuantity); err != nil {
		return nil, err
	}
	item, ok := t.st.stockItems[stockItemID]
	if !ok {
		return nil, custom_error.NotFound("stock item %d not found", stockItemID)
	}
	item.Quantity += quantity
	item.UpdatedAt = t.store.now()
	t.st.stockItems[stockItemID] = item
	return &item, nil
}

func (t *ledgerTx) DecreaseQuantity(_ context.Context, stockItemID, quantity int) (*models.StockItem, error) {
	if err := t.store.fault(OpDecreaseQuantity); err != nil {
		return nil, err
	}
	item, ok := t.st.stockItems[stockItemID]
	if !ok {
		return nil, custom_error.NotFound("stock item %d not found", stockItemID)
	}
	if item.Quantity < quantity {
		return nil, custom_error.InsufficientStock(item.Quantity)
	}
	item.Quantity -= quantity
	item.UpdatedAt = t.store.now()
	t.st.stockItems[stockItemID] = item
	return &item, nil
}

func (t *ledgerTx) AppendLogEntry(_ context.Context, entry models.StockLogEntry) (*models.StockLogEntry, error) {
	if err := t.store.fault(OpAppendLogEntry); err != nil {
		return nil, err
	}
	if _, ok := t.st.stockItems[entry.StockItemID]; !ok {
		return nil, custom_error.Conflict("stock item %d does not exist", entry.StockItemID)
	}
	entry.ID = t.st.nextID("stock_log_entries")
	entry.CreatedAt = t.store.now()
	t.st.logEntries = append(t.st.logEntries, entry)
	return &entry, nil
}

func (s *Store) GetStockItem(_ context.Context, id int) (*models.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.state.stockItems[id]
	if !ok {
		return nil, custom_error.NotFound("stock item %d not found", id)
	}
	return &item, nil
}

func (s *Store) ListStockItems(_ context.Context) ([]models.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(OpListStockItems); err != nil {
		return nil, err
	}
	items := make([]models.StockItem, 0, len(s.state.stockItems))
	for _, item := range s.state.stockItems {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) ListLogEntries(_ context.Context, stockItemID int) ([]models.StockLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.logEntriesOf(stockItemID), nil
}

func (s *Store) Snapshot(_ context.Context, stockItemID int) (*models.StockItem, []models.StockLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.state.stockItems[stockItemID]
	if !ok {
		return nil, nil, custom_error.NotFound("stock item %d not found", stockItemID)
	}
	return &item, s.state.logEntriesOf(stockItemID), nil
}

func (st *state) logEntriesOf(stockItemID int) []models.StockLogEntry {
	var entries []models.StockLogEntry
	for _, entry := range st.logEntries {
		if entry.StockItemID == stockItemID {
			entries = append(entries, entry)
		}
	}
	return entries
}
