package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"book-marketplace/internal/domains/user"
	"book-marketplace/internal/shared/middleware"
	"book-marketplace/internal/shared/response"
	"book-marketplace/internal/shared/utils"
)

// UserHandler handles HTTP requests of the user domain
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes mounts the /users endpoints on r
func (h *UserHandler) RegisterRoutes(r gin.IRouter) {
	users := r.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.GET("/validate", h.Validate)
		users.GET("/:id", h.GetUser)
	}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register - POST /users/register
// Body: {name, email, password, role}
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if user.HandleUserError(c, err) {
		return
	}
	response.OK(c, resp)
}

// Login - POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if user.HandleUserError(c, err) {
		return
	}
	response.OK(c, resp)
}

// Validate - GET /users/validate
// Missing or non-Bearer header: 400 {valid:false}. Bad token: 200 {valid:false}.
func (h *UserHandler) Validate(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusBadRequest, user.ValidateResponse{Valid: false})
		return
	}

	resp, err := h.service.ValidateToken(c.Request.Context(), token)
	if user.HandleUserError(c, err) {
		return
	}
	response.OK(c, resp)
}

// ========================================
// PROFILE
// ========================================

// GetUser - GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.GetByID(c.Request.Context(), id)
	if user.HandleUserError(c, err) {
		return
	}
	response.OK(c, dto)
}
