package assets

import (
	"context"
	"net/http"
	"strconv"

	"github.com/SarprasYP/sispras/internal/middleware"
	"github.com/SarprasYP/sispras/pkg/models"
	"github.com/SarprasYP/sispras/pkg/roles"
	"github.com/SarprasYP/sispras/pkg/security"

	"github.com/gin-gonic/gin"
)

type Provisioner interface {
	CreateAssets(ctx context.Context, req CreateAssetsRequest) ([]models.Asset, error)
	ListAssets(ctx context.Context, req ListAssetsRequest) (*models.AssetPage, error)
	GenerateSerial(ctx context.Context, productID, locationID, sequence int) (string, error)
	GetAsset(ctx context.Context, id int) (*models.Asset, error)
	UpdateAsset(ctx context.Context, id int, req UpdateAssetRequest) (*models.Asset, error)
	DeleteAsset(ctx context.Context, id int) error
}

type AssetHandler struct {
	service Provisioner
}

func NewAssetHandler(service Provisioner) *AssetHandler {
	return &AssetHandler{service: service}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/assets", security.Authorize(roles.User), h.ListAssets)
	router.POST("/assets/bulk", security.Authorize(roles.Admin), h.CreateAssets)
	router.GET("/assets/serial", security.Authorize(roles.User), h.GenerateSerial)
	router.GET("/assets/:id", security.Authorize(roles.User), h.GetAsset)
	router.PATCH("/assets/:id", security.Authorize(roles.Admin), h.UpdateAsset)
	router.DELETE("/assets/:id", security.Authorize(roles.Admin), h.DeleteAsset)
}

func (h *AssetHandler) CreateAssets(c *gin.Context) {
	var req CreateAssetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	created, err := h.service.CreateAssets(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *AssetHandler) ListAssets(c *gin.Context) {
	var req ListAssetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	page, err := h.service.ListAssets(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *AssetHandler) GenerateSerial(c *gin.Context) {
	params := make(map[string]int, 3)
	for _, name := range []string{"product_id", "location_id", "sequence"} {
		value, err := strconv.Atoi(c.Query(name))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameter", "parameter": name})
			return
		}
		params[name] = value
	}

	serialNumber, err := h.service.GenerateSerial(c.Request.Context(), params["product_id"], params["location_id"], params["sequence"])
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"serial_number": serialNumber})
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	asset, err := h.service.GetAsset(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.service.UpdateAsset(c.Request.Context(), id, req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	if err := h.service.DeleteAsset(c.Request.Context(), id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
