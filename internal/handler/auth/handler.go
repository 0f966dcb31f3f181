package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projectred/donor-api/internal/handler"
	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/service/auth"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.RegisterPerson)
		authGroup.POST("/login", h.LoginPerson)
		authGroup.POST("/hospitals/register", h.RegisterHospital)
		authGroup.POST("/hospitals/login", h.LoginHospital)
		authGroup.POST("/password-reset", h.ForgotPassword)
		authGroup.POST("/password-reset/confirm", h.ResetPassword)
	}
}

// ForgotPassword always answers 200 so callers cannot tell known
// addresses from unknown ones.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"message": "if the address is registered, a reset email is on its way",
	}))
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"message": "password updated",
	}))
}

func (h *Handler) RegisterPerson(c *gin.Context) {
	var req model.RegisterPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	person, token, err := h.service.RegisterPerson(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{
		"token":  token,
		"person": person,
	}))
}

func (h *Handler) LoginPerson(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	person, token, err := h.service.LoginPerson(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"token":  token,
		"person": person,
	}))
}

func (h *Handler) RegisterHospital(c *gin.Context) {
	var req model.RegisterHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	hospital, token, err := h.service.RegisterHospital(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{
		"token":    token,
		"hospital": hospital,
	}))
}

func (h *Handler) LoginHospital(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	staff, token, err := h.service.LoginHospital(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"token": token,
		"staff": staff,
	}))
}
