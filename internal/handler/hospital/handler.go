package hospital

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/projectred/donor-api/pkg/geo"

	"github.com/projectred/donor-api/internal/handler"
	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository"
	"github.com/projectred/donor-api/internal/service/donation"
	"github.com/projectred/donor-api/internal/service/hospital"
)

type Handler struct {
	service   *hospital.Service
	donations *donation.Service
	repo      repository.HospitalRepository
}

func NewHandler(service *hospital.Service, donations *donation.Service, repo repository.HospitalRepository) *Handler {
	return &Handler{
		service:   service,
		donations: donations,
		repo:      repo,
	}
}

// RegisterRoutes mounts the hospital directory endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hospitals := r.Group("/hospitals")
	{
		hospitals.GET("", h.List)
		hospitals.GET("/nearby", h.Nearby)
		hospitals.GET("/:id", h.Get)
	}
}

// RegisterDashboardRoutes mounts the staff-facing endpoints. The caller
// wraps the group with the hospital auth requirement.
func (h *Handler) RegisterDashboardRoutes(r *gin.RouterGroup) {
	dashboard := r.Group("/hospital")
	{
		dashboard.GET("/donations", h.ListDonations)
		dashboard.POST("/donations/:id/complete", h.CompleteDonation)
		dashboard.POST("/donations/:id/blood-test", h.SubmitBloodTest)
		dashboard.PUT("/donations/:id/blood-test", h.UpdateBloodTest)
	}
}

func (h *Handler) List(c *gin.Context) {
	hospitals, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hospitals))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	hosp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hosp))
}

func (h *Handler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid lat"))
		return
	}
	long, err := strconv.ParseFloat(c.Query("long"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid long"))
		return
	}
	radiusKm, err := strconv.ParseFloat(c.DefaultQuery("radius_km", "50"), 64)
	if err != nil || radiusKm <= 0 {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid radius_km"))
		return
	}

	matches, err := h.service.Nearby(c.Request.Context(), geo.Coordinate{Lat: lat, Long: long}, radiusKm)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(matches))
}

func (h *Handler) ListDonations(c *gin.Context) {
	hospitalID, ok := h.resolveHospital(c)
	if !ok {
		return
	}

	donations, err := h.donations.ListForHospital(c.Request.Context(), hospitalID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(donations))
}

func (h *Handler) CompleteDonation(c *gin.Context) {
	hospitalID, ok := h.resolveHospital(c)
	if !ok {
		return
	}

	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	d, err := h.donations.Complete(c.Request.Context(), hospitalID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(d))
}

func (h *Handler) SubmitBloodTest(c *gin.Context) {
	hospitalID, ok := h.resolveHospital(c)
	if !ok {
		return
	}

	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.SubmitBloodTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	test, err := h.donations.SubmitBloodTest(c.Request.Context(), hospitalID, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(test))
}

func (h *Handler) UpdateBloodTest(c *gin.Context) {
	hospitalID, ok := h.resolveHospital(c)
	if !ok {
		return
	}

	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.SubmitBloodTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	test, err := h.donations.UpdateBloodTest(c.Request.Context(), hospitalID, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(test))
}

// resolveHospital maps the staff principal to the hospital it belongs to.
func (h *Handler) resolveHospital(c *gin.Context) (uuid.UUID, bool) {
	p := handler.Principal(c)

	staff, err := h.repo.GetStaff(c.Request.Context(), p.ID)
	if err != nil {
		handler.Error(c, err)
		return uuid.Nil, false
	}
	return staff.HospitalID, true
}
