package handler

import (
	"github.com/gin-gonic/gin"

	"book-marketplace/internal/domains/order/model"
	"book-marketplace/internal/domains/order/service"
	"book-marketplace/internal/shared/response"
	"book-marketplace/internal/shared/utils"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// RegisterRoutes mounts the /orders endpoints on r
func (h *OrderHandler) RegisterRoutes(r gin.IRouter) {
	orders := r.Group("/orders")
	{
		orders.POST("/purchase", h.Purchase)
		orders.GET("/buyer/:buyerId", h.ListByBuyer)
		orders.GET("/seller/:sellerId", h.ListBySeller)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id/status", h.UpdateStatus)
	}
}

// =====================================================
// PURCHASE
// =====================================================

// Purchase - POST /orders/purchase
// Body: {buyerId, bookId, quantity}
func (h *OrderHandler) Purchase(c *gin.Context) {
	var req model.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.Purchase(c.Request.Context(), req)
	if model.HandleOrderError(c, err) {
		return
	}
	response.OK(c, order)
}

// =====================================================
// QUERIES
// =====================================================

// ListByBuyer - GET /orders/buyer/:buyerId
func (h *OrderHandler) ListByBuyer(c *gin.Context) {
	buyerID, err := utils.ParamID(c, "buyerId")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	orders, err := h.orderService.ListByBuyer(c.Request.Context(), buyerID)
	if model.HandleOrderError(c, err) {
		return
	}
	response.OK(c, orders)
}

// ListBySeller - GET /orders/seller/:sellerId
func (h *OrderHandler) ListBySeller(c *gin.Context) {
	sellerID, err := utils.ParamID(c, "sellerId")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	orders, err := h.orderService.ListBySeller(c.Request.Context(), sellerID)
	if model.HandleOrderError(c, err) {
		return
	}
	response.OK(c, orders)
}

// GetOrder - GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if model.HandleOrderError(c, err) {
		return
	}
	response.OK(c, order)
}

// =====================================================
// UPDATE STATUS
// =====================================================

// UpdateStatus - PUT /orders/:id/status
// Body: {status: PENDING|COMPLETED|CANCELLED}
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if model.HandleOrderError(c, req.Validate()) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if model.HandleOrderError(c, err) {
		return
	}
	response.OK(c, order)
}
