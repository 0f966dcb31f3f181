package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/middleware"
	"github.com/projectred/donor-api/internal/model"
)

// Principal returns the authenticated principal. Routes behind the auth
// middleware always have one; a nil return on such a route is a wiring bug
// and surfaces as 401.
func Principal(c *gin.Context) *model.Principal {
	return middleware.GetPrincipal(c)
}

// ParseID parses a UUID path parameter, writing a 400 on failure. The bool
// reports whether the handler should continue.
func ParseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// Error writes a JSON error response with the HTTP status mapped from the
// application error code.
func Error(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
		_ = c.Error(err)
	}
	c.JSON(status, NewErrorResponse(message))
}

func statusFor(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return http.StatusForbidden
	case apperrors.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
