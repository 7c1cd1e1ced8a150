package stocks

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Restock(ctx context.Context, req RestockRequest, actingUserID *int) (*models.StockMovement, error) {
	args := m.Called(req, actingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockMovement), args.Error(1)
}

func (m *MockLedger) Usage(ctx context.Context, req UsageRequest, actingUserID *int) (*models.StockMovement, error) {
	args := m.Called(req, actingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockMovement), args.Error(1)
}

func (m *MockLedger) GetStockItem(ctx context.Context, id int) (*models.StockItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItem), args.Error(1)
}

func (m *MockLedger) GetStockLog(ctx context.Context, stockItemID int) ([]models.StockLogEntry, error) {
	args := m.Called(stockItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StockLogEntry), args.Error(1)
}

func (m *MockLedger) ListStock(ctx context.Context, req ListStockRequest) (*models.StockPage, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockPage), args.Error(1)
}

func (m *MockLedger) ListLog(ctx context.Context, req ListLogRequest) (*models.LogPage, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LogPage), args.Error(1)
}

// SetupTestRouter registers the handler behind a fake authentication step
// that grants the given role to user 5.
func SetupTestRouter(handler *StockHandler, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("")
	group.Use(func(c *gin.Context) {
		c.Set("userID", "5")
		c.Set("role", role)
		c.Next()
	})
	handler.RegisterRoutes(group)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStockHandler_Restock(t *testing.T) {
	ledger := new(MockLedger)
	router := SetupTestRouter(NewStockHandler(ledger), "manager")

	req := RestockRequest{ProductID: 9, Quantity: 50, Unit: "pcs", PersonName: "Budi"}
	ledger.On("Restock", req, mock.MatchedBy(func(id *int) bool { return id != nil && *id == 5 })).
		Return(&models.StockMovement{StockItem: models.StockItem{ID: 1, ProductID: 9, Quantity: 50, Unit: "pcs"}}, nil)

	w := doJSON(router, http.MethodPost, "/stocks/restock", req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var movement models.StockMovement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movement))
	assert.Equal(t, 50, movement.StockItem.Quantity)
	ledger.AssertExpectations(t)
}

func TestStockHandler_RestockRequiresManager(t *testing.T) {
	ledger := new(MockLedger)
	router := SetupTestRouter(NewStockHandler(ledger), "user")

	w := doJSON(router, http.MethodPost, "/stocks/restock", RestockRequest{ProductID: 9, Quantity: 1, Unit: "pcs", PersonName: "Budi"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	ledger.AssertNotCalled(t, "Restock", mock.Anything, mock.Anything)
}

func TestStockHandler_UsageErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		expected map[string]interface{}
	}{
		{
			name:     "insufficient stock",
			err:      custom_error.InsufficientStock(30),
			status:   http.StatusUnprocessableEntity,
			expected: map[string]interface{}{"available": float64(30)},
		},
		{
			name:     "validation",
			err:      custom_error.Validation(map[string][]string{"quantity": {"must be at least 1"}}),
			status:   http.StatusBadRequest,
			expected: map[string]interface{}{"kind": "validation"},
		},
		{
			name:     "missing stock item",
			err:      custom_error.NotFound("stock item 1 not found"),
			status:   http.StatusNotFound,
			expected: map[string]interface{}{"error": "stock item 1 not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := new(MockLedger)
			router := SetupTestRouter(NewStockHandler(ledger), "user")
			ledger.On("Usage", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := doJSON(router, http.MethodPost, "/stocks/usage", UsageRequest{StockItemID: 1, Quantity: 40, PersonName: "Siti"})

			assert.Equal(t, tt.status, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			for key, value := range tt.expected {
				assert.Equal(t, value, body[key])
			}
		})
	}
}

func TestStockHandler_InvalidPayload(t *testing.T) {
	ledger := new(MockLedger)
	router := SetupTestRouter(NewStockHandler(ledger), "admin")

	req, _ := http.NewRequest(http.MethodPost, "/stocks/usage", bytes.NewBufferString(`{"quantity": "ten"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ledger.AssertNotCalled(t, "Usage", mock.Anything, mock.Anything)
}

func TestStockHandler_GetStockLog(t *testing.T) {
	ledger := new(MockLedger)
	router := SetupTestRouter(NewStockHandler(ledger), "user")
	ledger.On("GetStockLog", 3).Return([]models.StockLogEntry{{ID: 1, StockItemID: 3, QuantityChanged: 50}}, nil)

	w := doJSON(router, http.MethodGet, "/stocks/3/log", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/stocks/abc/log", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	ledger.AssertExpectations(t)
}

func TestStockHandler_ListStock(t *testing.T) {
	ledger := new(MockLedger)
	router := SetupTestRouter(NewStockHandler(ledger), "user")
	ledger.On("ListStock", ListStockRequest{Page: 2, Limit: 5, SortBy: "quantity", Order: "desc", Q: "kertas"}).
		Return(&models.StockPage{
			Data:       []models.StockView{{StockItem: models.StockItem{ID: 3, Quantity: 6}, ProductName: "Kertas A4"}},
			Pagination: models.NewPagination(6, 2, 5),
		}, nil)

	w := doJSON(router, http.MethodGet, "/stocks?page=2&limit=5&sortBy=quantity&order=desc&q=kertas", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var page models.StockPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Kertas A4", page.Data[0].ProductName)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	ledger.AssertExpectations(t)
}

func TestStockHandler_ListLog(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{name: "ok", query: "?stockItemId=3&transactionType=usage", status: http.StatusOK},
		{name: "malformed number", query: "?stockItemId=abc", status: http.StatusBadRequest},
		{name: "validation", query: "?transactionType=transfer", err: custom_error.Validation(map[string][]string{"transactionType": {"must be one of restock usage"}}), status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := new(MockLedger)
			router := SetupTestRouter(NewStockHandler(ledger), "user")
			if tt.err != nil {
				ledger.On("ListLog", mock.Anything).Return(nil, tt.err)
			} else {
				ledger.On("ListLog", ListLogRequest{StockItemID: 3, TransactionType: "usage"}).
					Return(&models.LogPage{Data: []models.ActivityEntry{}, Pagination: models.NewPagination(0, 1, 10)}, nil)
			}

			w := doJSON(router, http.MethodGet, "/stocks/logs"+tt.query, nil)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				ledger.AssertExpectations(t)
			}
		})
	}
}
