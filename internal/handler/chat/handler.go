package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projectred/donor-api/internal/handler"
	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/service/chat"
)

type Handler struct {
	service *chat.Service
}

func NewHandler(service *chat.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/chat/rooms")
	{
		rooms.GET("", h.ListRooms)
		rooms.GET("/:id", h.GetRoom)
		rooms.GET("/:id/messages", h.ListMessages)
		rooms.POST("/:id/messages", h.SendMessage)
	}
}

func (h *Handler) ListRooms(c *gin.Context) {
	p := handler.Principal(c)

	rooms, err := h.service.ListRooms(c.Request.Context(), p.ID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rooms))
}

func (h *Handler) GetRoom(c *gin.Context) {
	p := handler.Principal(c)

	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	room, err := h.service.GetRoom(c.Request.Context(), p.ID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(room))
}

func (h *Handler) ListMessages(c *gin.Context) {
	p := handler.Principal(c)

	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	messages, err := h.service.ListMessages(c.Request.Context(), p.ID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(messages))
}

func (h *Handler) SendMessage(c *gin.Context) {
	p := handler.Principal(c)

	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), p.ID, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(msg))
}
