package assets

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

type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) CreateAssets(ctx context.Context, req CreateAssetsRequest) ([]models.Asset, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Asset), args.Error(1)
}

func (m *MockProvisioner) GenerateSerial(ctx context.Context, productID, locationID, sequence int) (string, error) {
	args := m.Called(productID, locationID, sequence)
	return args.String(0), args.Error(1)
}

func (m *MockProvisioner) ListAssets(ctx context.Context, req ListAssetsRequest) (*models.AssetPage, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssetPage), args.Error(1)
}

func (m *MockProvisioner) GetAsset(ctx context.Context, id int) (*models.Asset, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockProvisioner) UpdateAsset(ctx context.Context, id int, req UpdateAssetRequest) (*models.Asset, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockProvisioner) DeleteAsset(ctx context.Context, id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func SetupTestRouter(handler *AssetHandler, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("")
	group.Use(func(c *gin.Context) {
		c.Set("userID", "1")
		c.Set("role", role)
		c.Next()
	})
	handler.RegisterRoutes(group)
	return router
}

func serve(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
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

func TestAssetHandler_CreateAssets(t *testing.T) {
	req := CreateAssetsRequest{ProductID: 1, LocationID: 2, Quantity: 2, Condition: "Good"}

	tests := []struct {
		name           string
		role           string
		setup          func(m *MockProvisioner)
		expectedStatus int
	}{
		{
			name: "created",
			role: "admin",
			setup: func(m *MockProvisioner) {
				m.On("CreateAssets", req).Return([]models.Asset{
					{ID: 1, SerialNumber: "GA/L3/R12/KUR-001"},
					{ID: 2, SerialNumber: "GA/L3/R12/KUR-002"},
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate serial",
			role: "admin",
			setup: func(m *MockProvisioner) {
				m.On("CreateAssets", req).Return(nil, custom_error.Duplicate("serial number %s already registered", "GA/L3/R12/KUR-001"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "missing product",
			role: "admin",
			setup: func(m *MockProvisioner) {
				m.On("CreateAssets", req).Return(nil, custom_error.NotFound("product %d not found", 1))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "requires admin",
			role:           "manager",
			setup:          func(m *MockProvisioner) {},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockProvisioner)
			tt.setup(m)
			router := SetupTestRouter(NewAssetHandler(m), tt.role)

			w := serve(router, http.MethodPost, "/assets/bulk", req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			m.AssertExpectations(t)
		})
	}
}

func TestAssetHandler_GenerateSerial(t *testing.T) {
	m := new(MockProvisioner)
	m.On("GenerateSerial", 1, 2, 7).Return("GA/L3/R12/KUR-007", nil)
	m.On("GenerateSerial", 1, 2, 0).Return("", custom_error.InvalidArgument("sequence must be positive, got %d", 0))
	router := SetupTestRouter(NewAssetHandler(m), "user")

	w := serve(router, http.MethodGet, "/assets/serial?product_id=1&location_id=2&sequence=7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "GA/L3/R12/KUR-007", body["serial_number"])

	w = serve(router, http.MethodGet, "/assets/serial?product_id=1&location_id=2&sequence=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, http.MethodGet, "/assets/serial?product_id=x&location_id=2&sequence=1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.AssertExpectations(t)
}

func TestAssetHandler_UpdateAndDelete(t *testing.T) {
	m := new(MockProvisioner)
	fair := "Fair"
	update := UpdateAssetRequest{Condition: &fair}
	m.On("UpdateAsset", 3, update).Return(&models.Asset{ID: 3, Condition: "Fair"}, nil)
	m.On("DeleteAsset", 3).Return(nil)
	m.On("DeleteAsset", 4).Return(custom_error.Conflict("asset %d is still referenced", 4))
	router := SetupTestRouter(NewAssetHandler(m), "admin")

	w := serve(router, http.MethodPatch, "/assets/3", update)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodDelete, "/assets/3", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(router, http.MethodDelete, "/assets/4", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(router, http.MethodDelete, "/assets/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.AssertExpectations(t)
}

func TestAssetHandler_ListAssets(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setup          func(m *MockProvisioner)
		expectedStatus int
	}{
		{
			name:  "page of assets",
			query: "?page=2&limit=5&sortBy=serialNumber&order=asc&locationId=2&condition=Good",
			setup: func(m *MockProvisioner) {
				m.On("ListAssets", ListAssetsRequest{Page: 2, Limit: 5, SortBy: "serialNumber", Order: "asc", LocationID: 2, Condition: "Good"}).
					Return(&models.AssetPage{
						Data:       []models.Asset{{ID: 8, SerialNumber: "GA/L3/R12/KUR-002"}},
						Pagination: models.NewPagination(6, 2, 5),
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "invalid sort key",
			query: "?sortBy=price",
			setup: func(m *MockProvisioner) {
				m.On("ListAssets", ListAssetsRequest{SortBy: "price"}).
					Return(nil, custom_error.Validation(map[string][]string{"sortBy": {"must be one of createdAt serialNumber"}}))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed page",
			query:          "?page=two",
			setup:          func(m *MockProvisioner) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockProvisioner)
			tt.setup(m)
			router := SetupTestRouter(NewAssetHandler(m), "user")

			w := serve(router, http.MethodGet, "/assets"+tt.query, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if w.Code == http.StatusOK {
				var page models.AssetPage
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
				require.Len(t, page.Data, 1)
				assert.Equal(t, "GA/L3/R12/KUR-002", page.Data[0].SerialNumber)
				assert.Equal(t, models.Pagination{TotalItems: 6, CurrentPage: 2, TotalPages: 2, Limit: 5}, page.Pagination)
			}
			m.AssertExpectations(t)
		})
	}
}
