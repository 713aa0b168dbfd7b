package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erpbridge/backend/internal/domain/shared"
	"github.com/erpbridge/backend/internal/infrastructure/logger"
	"github.com/erpbridge/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common response helpers for all handlers. Logging
// goes through the request-scoped logger that GinMiddleware attaches to
// the request context.
type BaseHandler struct{}

func (h BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func (h BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func (h BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
		shared.ErrInvalidInput.Code, message, getRequestID(c)))
}

// HandleError maps a service error onto the HTTP response envelope. Domain
// errors carry their own code; anything else is an internal error.
func (h BaseHandler) HandleError(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context())

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("code", domainErr.Code),
				zap.Error(err))
		}
		c.JSON(status, dto.NewErrorResponseWithRequestID(
			domainErr.Code, domainErr.Message, getRequestID(c)))
		return
	}

	log.Error("unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		"INTERNAL_ERROR", "internal server error", getRequestID(c)))
}

func getRequestID(c *gin.Context) string {
	if id, ok := c.Get("request_id"); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return logger.GetRequestID(c.Request.Context())
}
