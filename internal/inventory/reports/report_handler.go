package reports

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

type Reporter interface {
	GetLowStock(ctx context.Context, limit int) ([]models.LowStockItem, error)
	GetRecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error)
	GetAssetSummary(ctx context.Context, req SummaryRequest) (*models.AssetSummaryPage, error)
	GetDashboardSummary(ctx context.Context) (models.DashboardSummary, error)
}

type ReportHandler struct {
	reporter Reporter
}

func NewReportHandler(reporter Reporter) *ReportHandler {
	return &ReportHandler{reporter: reporter}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard/low-stock", security.Authorize(roles.User), h.GetLowStock)
	router.GET("/dashboard/recent-logs", security.Authorize(roles.User), h.GetRecentActivity)
	router.GET("/dashboard/summary", security.Authorize(roles.User), h.GetDashboardSummary)
	router.GET("/assets/summary", security.Authorize(roles.User), h.GetAssetSummary)
}

func (h *ReportHandler) GetLowStock(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}

	items, err := h.reporter.GetLowStock(c.Request.Context(), limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ReportHandler) GetRecentActivity(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}

	entries, err := h.reporter.GetRecentActivity(c.Request.Context(), limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.reporter.GetDashboardSummary(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) GetAssetSummary(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	page, err := h.reporter.GetAssetSummary(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// limitParam reads the optional ?limit, writing a 400 when it is malformed.
func limitParam(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return 0, false
	}
	return limit, true
}
