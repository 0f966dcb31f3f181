package request

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projectred/donor-api/internal/handler"
	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/service/request"
)

type Handler struct {
	service *request.Service
}

func NewHandler(service *request.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	{
		requests.POST("", h.Create)
		requests.GET("/open", h.ListOpen)
		requests.GET("/mine", h.ListMine)
		requests.GET("/:id", h.Get)
		requests.GET("/:id/best-donors", h.BestDonors)
		requests.POST("/:id/cancel", h.Cancel)
	}
}

func (h *Handler) Create(c *gin.Context) {
	p := handler.Principal(c)

	var req model.CreateBloodRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), p.ID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	req, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(req))
}

func (h *Handler) ListOpen(c *gin.Context) {
	requests, err := h.service.ListOpen(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

// ListMine returns requests the caller raised or donated toward.
func (h *Handler) ListMine(c *gin.Context) {
	p := handler.Principal(c)

	requests, err := h.service.ListForPerson(c.Request.Context(), p.ID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

// BestDonors ranks donor candidates for the caller's own request.
func (h *Handler) BestDonors(c *gin.Context) {
	p := handler.Principal(c)

	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	matches, err := h.service.BestDonors(c.Request.Context(), p.ID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(matches))
}

func (h *Handler) Cancel(c *gin.Context) {
	p := handler.Principal(c)

	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	req, err := h.service.Cancel(c.Request.Context(), p.ID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(req))
}
