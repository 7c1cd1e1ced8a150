package stocks

import (
	"context"
	"strings"
	"time"

	"github.com/SarprasYP/sispras/internal/repository"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/metadata"
	"github.com/SarprasYP/sispras/pkg/models"
	"github.com/SarprasYP/sispras/pkg/validation"
	"go.uber.org/zap"
)

// RetryPolicy bounds how often a ledger transaction aborted by contention is
// attempted again.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

type StockService struct {
	store  repository.LedgerStore
	retry  RetryPolicy
	logger *zap.Logger
}

func NewStockService(store repository.LedgerStore, retry RetryPolicy, logger *zap.Logger) *StockService {
	return &StockService{
		store:  store,
		retry:  retry,
		logger: logger,
	}
}

// Restock adds quantity to the product's stock item, creating the item on
// first restock, and records a restock entry in the same transaction.
func (s *StockService) Restock(ctx context.Context, req RestockRequest, actingUserID *int) (*models.StockMovement, error) {
	req.Unit = strings.TrimSpace(req.Unit)
	req.PersonName = strings.TrimSpace(req.PersonName)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var movement models.StockMovement
	err := s.withRetry(ctx, "restock", func() error {
		return s.store.RunLedger(ctx, func(tx repository.LedgerTx) error {
			if _, err := tx.GetConsumable(ctx, req.ProductID); err != nil {
				return err
			}
			item, err := tx.EnsureStockItem(ctx, req.ProductID, req.Unit)
			if err != nil {
				return err
			}
			updated, err := tx.IncreaseQuantity(ctx, item.ID, req.Quantity)
			if err != nil {
				return err
			}
			entry, err := tx.AppendLogEntry(ctx, models.StockLogEntry{
				StockItemID:     updated.ID,
				TransactionType: metadata.TransactionRestock,
				QuantityChanged: req.Quantity,
				PersonName:      req.PersonName,
				PersonRole:      req.PersonRole,
				Notes:           req.Notes,
				UserID:          actingUserID,
			})
			if err != nil {
				return err
			}
			movement = models.StockMovement{StockItem: *updated, LogEntry: *entry}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock restocked",
		zap.Int("stock_item_id", movement.StockItem.ID),
		zap.Int("product_id", req.ProductID),
		zap.Int("quantity_added", req.Quantity),
		zap.Int("quantity", movement.StockItem.Quantity),
	)
	return &movement, nil
}

// Usage takes quantity out of a stock item. The sufficiency check and the
// decrement happen atomically in the store.
func (s *StockService) Usage(ctx context.Context, req UsageRequest, actingUserID *int) (*models.StockMovement, error) {
	req.PersonName = strings.TrimSpace(req.PersonName)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var movement models.StockMovement
	err := s.withRetry(ctx, "usage", func() error {
		return s.store.RunLedger(ctx, func(tx repository.LedgerTx) error {
			updated, err := tx.DecreaseQuantity(ctx, req.StockItemID, req.Quantity)
			if err != nil {
				return err
			}
			entry, err := tx.AppendLogEntry(ctx, models.StockLogEntry{
				StockItemID:     updated.ID,
				TransactionType: metadata.TransactionUsage,
				QuantityChanged: req.Quantity,
				PersonName:      req.PersonName,
				PersonRole:      req.PersonRole,
				Notes:           req.Notes,
				UserID:          actingUserID,
			})
			if err != nil {
				return err
			}
			movement = models.StockMovement{StockItem: *updated, LogEntry: *entry}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock used",
		zap.Int("stock_item_id", movement.StockItem.ID),
		zap.Int("quantity_taken", req.Quantity),
		zap.Int("quantity", movement.StockItem.Quantity),
	)
	return &movement, nil
}

func (s *StockService) GetStockItem(ctx context.Context, id int) (*models.StockItem, error) {
	return s.store.GetStockItem(ctx, id)
}

// GetStockLog returns the full history of a stock item, oldest first.
func (s *StockService) GetStockLog(ctx context.Context, stockItemID int) ([]models.StockLogEntry, error) {
	if _, err := s.store.GetStockItem(ctx, stockItemID); err != nil {
		return nil, err
	}
	return s.store.ListLogEntries(ctx, stockItemID)
}

const DefaultListLimit = 10

// ListStock pages over stock items with their products, by product name
// unless another sort key is given.
func (s *StockService) ListStock(ctx context.Context, req ListStockRequest) (*models.StockPage, error) {
	req.SortBy = strings.TrimSpace(req.SortBy)
	req.Order = strings.ToLower(strings.TrimSpace(req.Order))
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	query := models.StockListQuery{
		Page:   max(req.Page, 1),
		Limit:  req.Limit,
		SortBy: req.SortBy,
		Desc:   req.Order == "desc",
		Q:      strings.TrimSpace(req.Q),
	}
	if query.Limit == 0 {
		query.Limit = DefaultListLimit
	}
	if query.SortBy == "" {
		query.SortBy = models.StockSortProductName
	}

	views, total, err := s.store.ListStock(ctx, query)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []models.StockView{}
	}

	return &models.StockPage{Data: views, Pagination: models.NewPagination(total, query.Page, query.Limit)}, nil
}

// ListLog pages over the ledger of every stock item, newest first unless
// ascending order is asked for.
func (s *StockService) ListLog(ctx context.Context, req ListLogRequest) (*models.LogPage, error) {
	req.Order = strings.ToLower(strings.TrimSpace(req.Order))
	req.TransactionType = strings.TrimSpace(req.TransactionType)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	query := models.LogListQuery{
		Page:            max(req.Page, 1),
		Limit:           req.Limit,
		Desc:            req.Order != "asc",
		StockItemID:     req.StockItemID,
		TransactionType: req.TransactionType,
		Q:               strings.TrimSpace(req.Q),
	}
	if query.Limit == 0 {
		query.Limit = DefaultListLimit
	}

	entries, total, err := s.store.ListLog(ctx, query)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.ActivityEntry{}
	}

	return &models.LogPage{Data: entries, Pagination: models.NewPagination(total, query.Page, query.Limit)}, nil
}

func (s *StockService) withRetry(ctx context.Context, operation string, fn func() error) error {
	backoff := s.retry.Backoff
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !custom_error.IsRetryable(err) || attempt >= s.retry.MaxRetries {
			return err
		}

		s.logger.Warn("Ledger transaction aborted, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		backoff *= 2
	}
}
