package stocks

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

// Ledger is the part of StockService the handler needs.
type Ledger interface {
	Restock(ctx context.Context, req RestockRequest, actingUserID *int) (*models.StockMovement, error)
	Usage(ctx context.Context, req UsageRequest, actingUserID *int) (*models.StockMovement, error)
	GetStockItem(ctx context.Context, id int) (*models.StockItem, error)
	GetStockLog(ctx context.Context, stockItemID int) ([]models.StockLogEntry, error)
	ListStock(ctx context.Context, req ListStockRequest) (*models.StockPage, error)
	ListLog(ctx context.Context, req ListLogRequest) (*models.LogPage, error)
}

type StockHandler struct {
	ledger Ledger
}

func NewStockHandler(ledger Ledger) *StockHandler {
	return &StockHandler{ledger: ledger}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/stocks/restock", security.Authorize(roles.Manager), h.Restock)
	router.POST("/stocks/usage", security.Authorize(roles.User), h.Usage)
	router.GET("/stocks", security.Authorize(roles.User), h.ListStock)
	router.GET("/stocks/logs", security.Authorize(roles.User), h.ListLog)
	router.GET("/stocks/:id", security.Authorize(roles.User), h.GetStockItem)
	router.GET("/stocks/:id/log", security.Authorize(roles.User), h.GetStockLog)
}

func (h *StockHandler) Restock(c *gin.Context) {
	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	userID, err := security.ActingUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	movement, err := h.ledger.Restock(c.Request.Context(), req, userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, movement)
}

func (h *StockHandler) Usage(c *gin.Context) {
	var req UsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	userID, err := security.ActingUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	movement, err := h.ledger.Usage(c.Request.Context(), req, userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, movement)
}

func (h *StockHandler) GetStockItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid stock item ID"})
		return
	}

	item, err := h.ledger.GetStockItem(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *StockHandler) GetStockLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid stock item ID"})
		return
	}

	entries, err := h.ledger.GetStockLog(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *StockHandler) ListStock(c *gin.Context) {
	var req ListStockRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	page, err := h.ledger.ListStock(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *StockHandler) ListLog(c *gin.Context) {
	var req ListLogRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	page, err := h.ledger.ListLog(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
