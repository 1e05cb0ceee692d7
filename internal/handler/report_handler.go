package handler

import (
	"net/http"
	"strconv"

	"github.com/RF-YVY/HustleNest/internal/service"
	"github.com/RF-YVY/HustleNest/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService       service.ReportService
	forecastService     service.ForecastService
	notificationService service.NotificationService
}

func NewReportHandler(
	reportService service.ReportService,
	forecastService service.ForecastService,
	notificationService service.NotificationService,
) *ReportHandler {
	return &ReportHandler{
		reportService:       reportService,
		forecastService:     forecastService,
		notificationService: notificationService,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/orders", h.GetOrderReport)
		reports.GET("/products", h.GetProductSales)
		reports.GET("/customers", h.GetTopCustomers)
		reports.GET("/dashboard", h.GetDashboard)
		reports.GET("/forecast", h.GetForecast)
	}
	router.GET("/api/notifications", h.GetNotifications)
}

// GetOrderReport renders the date-ranged order report
// @Summary      Order report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end    query     string  false  "End date (YYYY-MM-DD), inclusive"
// @Success      200    {object}  response.Response{data=[]model.OrderReportRow}
// @Failure      400    {object}  response.Response
// @Router       /api/reports/orders [get]
func (h *ReportHandler) GetOrderReport(c *gin.Context) {
	start, ok := dateQuery(c, "start")
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD"))
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD"))
		return
	}

	rows, err := h.reportService.OrderReport(c.Request.Context(), start, end)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

func (h *ReportHandler) GetProductSales(c *gin.Context) {
	start, ok := dateQuery(c, "start")
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD"))
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD"))
		return
	}

	summaries, err := h.reportService.ProductSales(c.Request.Context(), start, end)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summaries))
}

func (h *ReportHandler) GetTopCustomers(c *gin.Context) {
	start, ok := dateQuery(c, "start")
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD"))
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	summaries, err := h.reportService.TopCustomers(c.Request.Context(), start, end, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summaries))
}

// GetDashboard returns the full dashboard snapshot
// @Summary      Dashboard
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.DashboardSnapshot}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	snapshot, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, snapshot))
}

// GetForecast projects stockout horizons over a trailing sales window.
func (h *ReportHandler) GetForecast(c *gin.Context) {
	window, _ := strconv.Atoi(c.DefaultQuery("window", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	forecasts, err := h.forecastService.Forecast(c.Request.Context(), window, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, forecasts))
}

// GetNotifications returns the current derived alert list.
func (h *ReportHandler) GetNotifications(c *gin.Context) {
	messages, err := h.notificationService.Notifications(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, messages))
}
