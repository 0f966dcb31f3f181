package donor

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/projectred/donor-api/config"
	"github.com/projectred/donor-api/pkg/geo"

	"github.com/projectred/donor-api/internal/handler"
	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/service/donor"
)

type Handler struct {
	service  *donor.Service
	matching config.MatchingConfig
}

func NewHandler(service *donor.Service, matching config.MatchingConfig) *Handler {
	return &Handler{service: service, matching: matching}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)

	donors := r.Group("/donors")
	{
		donors.GET("/nearby", h.FindNearby)
		donors.GET("/requests", h.AvailableRequests)
	}
}

func (h *Handler) GetProfile(c *gin.Context) {
	p := handler.Principal(c)

	person, err := h.service.GetProfile(c.Request.Context(), p.ID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(person))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	p := handler.Principal(c)

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	person, err := h.service.UpdateProfile(c.Request.Context(), p.ID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(person))
}

// FindNearby searches donors of a blood group around a point. lat, long
// and blood_group are required, radius_km defaults to the fanout radius.
func (h *Handler) FindNearby(c *gin.Context) {
	p := handler.Principal(c)

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

	group := model.BloodGroup(c.Query("blood_group"))
	if !group.Valid() {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid blood_group"))
		return
	}

	radiusKm := h.matching.FanoutRadiusKm
	if raw := c.Query("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm <= 0 {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid radius_km"))
			return
		}
	}

	matches, err := h.service.FindNearby(c.Request.Context(), geo.Coordinate{Lat: lat, Long: long}, group, radiusKm, p.ID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(matches))
}

// AvailableRequests returns the open-request feed around the donor's
// stored location.
func (h *Handler) AvailableRequests(c *gin.Context) {
	p := handler.Principal(c)

	matches, err := h.service.AvailableRequests(c.Request.Context(), p.ID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(matches))
}
