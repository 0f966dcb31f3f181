package donation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projectred/donor-api/internal/handler"
	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/service/donation"
)

type Handler struct {
	service *donation.Service
}

func NewHandler(service *donation.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	donations := r.Group("/donations")
	{
		donations.POST("", h.Offer)
		donations.GET("", h.ListMine)
		donations.GET("/:id", h.Get)
		donations.POST("/:id/accept", h.Accept)
		donations.POST("/:id/cancel", h.Cancel)
		donations.GET("/:id/blood-test", h.GetBloodTest)
	}
}

// Offer creates a pending donation against an open request.
func (h *Handler) Offer(c *gin.Context) {
	p := handler.Principal(c)

	var req model.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Offer(c.Request.Context(), p.ID, &req)
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

	d, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(d))
}

func (h *Handler) ListMine(c *gin.Context) {
	p := handler.Principal(c)

	donations, err := h.service.ListByDonor(c.Request.Context(), p.ID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(donations))
}

// Accept confirms the caller's own pending donation with live
// coordinates. The response carries the assigned hospital, when one was
// selected, and the chat room opened for the pair.
func (h *Handler) Accept(c *gin.Context) {
	p := handler.Principal(c)

	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.AcceptDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.Accept(c.Request.Context(), p.ID, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) Cancel(c *gin.Context) {
	p := handler.Principal(c)

	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	d, err := h.service.Cancel(c.Request.Context(), p.ID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(d))
}

func (h *Handler) GetBloodTest(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	test, err := h.service.GetBloodTest(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(test))
}
