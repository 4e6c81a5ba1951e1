package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"book-marketplace/internal/domains/book/model"
	"book-marketplace/internal/domains/book/service"
	"book-marketplace/internal/shared/response"
	"book-marketplace/internal/shared/utils"
)

// Handler - HTTP handler of the Book Store
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the /books endpoints on r
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	books := r.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.GET("/available", h.ListAvailable)
		books.GET("/seller/:sellerId", h.ListBySeller)
		books.GET("/:id", h.GetBook)
		books.POST("", h.CreateBook)
		books.PUT("/:id", h.UpdateBook)
		books.PUT("/:id/quantity", h.UpdateQuantity)
		books.POST("/:id/decrement", h.DecrementStock)
		books.POST("/:id/restock", h.RestoreStock)
		books.DELETE("/:id", h.DeleteBook)
	}
}

// ListBooks - GET /books
// Optional ?status=AVAILABLE|SOLD_OUT filter.
func (h *Handler) ListBooks(c *gin.Context) {
	var (
		books []model.Book
		err   error
	)

	if raw := c.Query("status"); raw != "" {
		status, parseErr := model.ParseBookStatus(raw)
		if model.HandleBookError(c, parseErr) {
			return
		}
		books, err = h.service.ListByStatus(c.Request.Context(), status)
	} else {
		books, err = h.service.ListBooks(c.Request.Context())
	}
	if model.HandleBookError(c, err) {
		return
	}

	response.OK(c, books)
}

// ListAvailable - GET /books/available
func (h *Handler) ListAvailable(c *gin.Context) {
	books, err := h.service.ListAvailable(c.Request.Context())
	if model.HandleBookError(c, err) {
		return
	}
	response.OK(c, books)
}

// ListBySeller - GET /books/seller/:sellerId
func (h *Handler) ListBySeller(c *gin.Context) {
	sellerID, err := utils.ParamID(c, "sellerId")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	books, err := h.service.ListBySeller(c.Request.Context(), sellerID)
	if model.HandleBookError(c, err) {
		return
	}
	response.OK(c, books)
}

// GetBook - GET /books/:id
// Cache-Control: no-cache reads the database directly.
func (h *Handler) GetBook(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	get := h.service.GetBook
	if strings.Contains(strings.ToLower(c.GetHeader("Cache-Control")), "no-cache") {
		get = h.service.GetBookFresh
	}

	book, err := get(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}
	response.OK(c, book)
}

// CreateBook - POST /books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req)
	if model.HandleBookError(c, err) {
		return
	}
	response.Created(c, book)
}

// UpdateBook - PUT /books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if model.HandleBookError(c, err) {
		return
	}
	response.OK(c, book)
}

// UpdateQuantity - PUT /books/:id/quantity
func (h *Handler) UpdateQuantity(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req model.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if model.HandleBookError(c, req.Validate()) {
		return
	}

	book, err := h.service.UpdateQuantity(c.Request.Context(), id, *req.Quantity)
	if model.HandleBookError(c, err) {
		return
	}
	response.OK(c, book)
}

// DecrementStock - POST /books/:id/decrement
// 409 when fewer than quantity copies are left.
func (h *Handler) DecrementStock(c *gin.Context) {
	id, req, ok := bindStockChange(c)
	if !ok {
		return
	}

	book, err := h.service.DecrementStock(c.Request.Context(), id, req.Quantity)
	if model.HandleBookError(c, err) {
		return
	}
	response.OK(c, book)
}

// RestoreStock - POST /books/:id/restock
// A repeated orderRef answers 200 without adding the quantity again.
func (h *Handler) RestoreStock(c *gin.Context) {
	id, req, ok := bindStockChange(c)
	if !ok {
		return
	}

	book, err := h.service.RestoreStock(c.Request.Context(), id, req.Quantity, req.OrderRef)
	if model.HandleBookError(c, err) {
		return
	}
	response.OK(c, book)
}

func bindStockChange(c *gin.Context) (int64, model.StockChangeRequest, bool) {
	var req model.StockChangeRequest

	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return 0, req, false
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return 0, req, false
	}
	if model.HandleBookError(c, req.Validate()) {
		return 0, req, false
	}
	return id, req, true
}

// DeleteBook - DELETE /books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if model.HandleBookError(c, h.service.DeleteBook(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusOK)
}
