package handler

import (
	"net/http"
	"strconv"

	"github.com/RF-YVY/HustleNest/internal/repository"
	"github.com/RF-YVY/HustleNest/internal/service"
	"github.com/RF-YVY/HustleNest/pkg/pagination"
	"github.com/RF-YVY/HustleNest/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders")
	{
		orders.GET("", h.ListOrders)
		orders.POST("", h.CreateOrder)
		orders.GET("/history", h.GetHistory)
		orders.GET("/statuses", h.GetStatuses)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id", h.UpdateOrder)
		orders.DELETE("/:id", h.DeleteOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
	}

	sequence := router.Group("/api/sequence")
	{
		sequence.GET("/preview", h.PreviewNumber)
		sequence.GET("/for-sku", h.NumberForSKU)
	}
}

// ListOrders returns recent non-cancelled orders, newest first
// @Summary      List orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query     int  false  "Number of orders (default 20, max 100)"
// @Success      200    {object}  response.Response{data=[]model.Order}
// @Failure      500    {object}  response.Response
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)
	orders, err := h.orderService.ListRecentOrders(c.Request.Context(), params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, orders))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// CreateOrder records a new order, prices its lines and debits inventory
// @Summary      Create order
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.OrderInput  true  "Order payload"
// @Success      201      {object}  response.Response{data=model.Order}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input service.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// UpdateOrder replaces an order's header and line items, reconciling
// inventory against the previous revision
// @Summary      Update order
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Order ID"
// @Param        payload  body      service.OrderInput  true  "Order payload"
// @Success      200      {object}  response.Response{data=model.Order}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var input service.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// CancelOrder cancels an order and restores its inventory. Cancelling an
// already-cancelled order is a no-op.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	if err := h.orderService.CancelOrder(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}

// GetHistory returns the audit trail, optionally filtered by order number
// substring and event date range
// @Summary      Order history
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        order_number  query     string  false  "Order number substring"
// @Param        start         query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end           query     string  false  "End date (YYYY-MM-DD), inclusive"
// @Param        limit         query     int     false  "Max events (default 200)"
// @Success      200           {object}  response.Response{data=[]model.OrderHistoryEvent}
// @Failure      400           {object}  response.Response
// @Router       /api/orders/history [get]
func (h *OrderHandler) GetHistory(c *gin.Context) {
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
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	events, err := h.orderService.ListOrderHistory(c.Request.Context(), repository.HistoryFilter{
		OrderNumber: c.Query("order_number"),
		StartDate:   start,
		EndDate:     end,
		Limit:       limit,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, events))
}

func (h *OrderHandler) GetStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.orderService.OrderStatuses()))
}

// PreviewNumber shows the next order number without consuming it.
func (h *OrderHandler) PreviewNumber(c *gin.Context) {
	number, err := h.orderService.PreviewOrderNumber(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"order_number": number,
	}))
}

// NumberForSKU derives a suggestion from the SKU's alphabetic prefix.
func (h *OrderHandler) NumberForSKU(c *gin.Context) {
	number, err := h.orderService.OrderNumberForSKU(c.Request.Context(), c.Query("sku"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"order_number": number,
	}))
}
